package placement

import (
	"context"
	stderrors "errors"
	"strings"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/validation"
	"placement-workers/internal/models"
	"placement-workers/internal/store"
)

func (s *Service) GetStudent(ctx context.Context, id string) (models.Student, error) {
	st, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return models.Student{}, storeError(err, "get student", func() *errors.StandardError {
			return errors.NewStudentNotFoundError(id)
		})
	}
	return st, nil
}

func (s *Service) ListStudents(ctx context.Context) ([]models.Student, error) {
	list, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, storeError(err, "list students", nil)
	}
	return list, nil
}

// UpsertStudent saves the record and refreshes its search document. A search
// failure is logged; the store stays authoritative.
func (s *Service) UpsertStudent(ctx context.Context, st models.Student) error {
	st.ID = strings.TrimSpace(st.ID)
	if st.ID == "" {
		return errors.NewInvalidInputError("student id is required")
	}
	if err := s.store.UpsertStudent(ctx, st); err != nil {
		return storeError(err, "upsert student", nil)
	}
	if s.index != nil {
		if err := s.index.IndexStudent(ctx, st); err != nil {
			s.logger.Warn("failed to index student", map[string]interface{}{
				"studentId": st.ID,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return stderrors.Is(err, store.ErrNotFound)
}

// validationResult returns an INVALID_INPUT error for a struct that fails its
// validate tags, or nil.
func validationResult(v interface{}) error {
	if res := validation.ValidateStruct(v); !res.Valid {
		return errors.NewInvalidInputError(res.Error())
	}
	return nil
}
