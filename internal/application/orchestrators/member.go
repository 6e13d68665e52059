package orchestrators

import (
	"context"

	"go.uber.org/zap"

	"artcor/internal/domain/failure"
	"artcor/internal/domain/member"
)

// AddMemberInput carries raw form values for a new member.
type AddMemberInput struct {
	Name string
	Role string
}

// AddMemberDeps holds dependencies for AddMember.
type AddMemberDeps struct {
	MemberStore MemberStore
	IDs         IDAllocator
	UniqueNames bool
}

// ExecuteAddMember validates and stores a new member.
// PRE: IDs.Peek returns an id never used by a live member or event
// POST: Member persisted with a fresh id; no id is consumed on failure
// INVARIANT: With UniqueNames, no two members share a name case-insensitively
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	m, err := member.Draft(input.Name, input.Role)
	if err != nil {
		return member.Member{}, err
	}

	if deps.UniqueNames {
		_, exists, err := deps.MemberStore.FindByName(ctx, m.Name)
		if err != nil {
			return member.Member{}, err
		}
		if exists {
			return member.Member{}, &failure.DuplicateNameError{Name: m.Name}
		}
	}

	m.ID = deps.IDs.Peek()
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	deps.IDs.Observe(m.ID)

	zap.L().Info("member_event", zap.String("event", "member_added"), zap.Int("member_id", m.ID))
	return m, nil
}

// UpdateMemberInput carries the edited values for an existing member.
type UpdateMemberInput struct {
	MemberID int
	Name     string
	Role     string
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteUpdateMember replaces a member's name and role.
// Edits are not checked for duplicate names.
// PRE: MemberID names an existing member
// POST: Member persisted with trimmed name/role; id unchanged
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}

	if err := m.Rename(input.Name, input.Role); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	zap.L().Info("member_event", zap.String("event", "member_updated"), zap.Int("member_id", m.ID))
	return m, nil
}

// DeleteMemberInput identifies the member to remove.
type DeleteMemberInput struct {
	MemberID int
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStore
	EventStore  EventReferenceStore
}

// ExecuteDeleteMember removes a member no event refers to.
// PRE: MemberID names an existing member
// POST: Member removed, or *failure.ReferentialIntegrityError naming the blocking events
// INVARIANT: The roster is untouched when deletion is refused
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}

	refs, err := deps.EventStore.ListByAttendee(ctx, m.ID)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		names := make([]string, len(refs))
		for i, e := range refs {
			names[i] = e.Name
		}
		zap.L().Info("member_event",
			zap.String("event", "member_delete_blocked"),
			zap.Int("member_id", m.ID),
			zap.Int("event_count", len(refs)),
		)
		return &failure.ReferentialIntegrityError{MemberID: m.ID, MemberName: m.Name, EventNames: names}
	}

	if err := deps.MemberStore.Delete(ctx, m.ID); err != nil {
		return err
	}

	zap.L().Info("member_event", zap.String("event", "member_deleted"), zap.Int("member_id", m.ID))
	return nil
}
