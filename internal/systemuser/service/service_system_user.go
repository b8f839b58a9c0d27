package service

import (
	"context"
	"strconv"

	"systemuser/internal/systemuser/model"
	"systemuser/internal/systemuser/repository"

	"github.com/pkg/errors"
)

func (s *Service) ListSystemUsersForParty(ctx context.Context, partyID int) ([]*model.SystemUser, error) {
	if partyID <= 0 {
		return []*model.SystemUser{}, nil
	}
	users, err := s.SystemUsers.ListActiveForParty(ctx, strconv.Itoa(partyID))
	if err != nil {
		return nil, errors.Wrap(err, "list system users")
	}
	return users, nil
}

func (s *Service) GetSystemUser(ctx context.Context, partyID int, systemUserID string) (*model.SystemUser, error) {
	user, err := s.SystemUsers.FindByID(ctx, systemUserID)
	if err != nil {
		return nil, errors.Wrap(err, "find system user")
	}
	if user == nil || user.PartyID != strconv.Itoa(partyID) {
		return nil, s.fail("get_system_user", model.ProblemSystemUserNotFound)
	}
	return user, nil
}

// DeleteSystemUser soft deletes; deleting twice reports not found.
func (s *Service) DeleteSystemUser(ctx context.Context, partyID int, systemUserID string) error {
	if _, err := s.GetSystemUser(ctx, partyID, systemUserID); err != nil {
		return err
	}
	if err := s.SystemUsers.SoftDelete(ctx, systemUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.fail("delete_system_user", model.ProblemSystemUserNotFound)
		}
		return errors.Wrap(err, "delete system user")
	}
	return nil
}
