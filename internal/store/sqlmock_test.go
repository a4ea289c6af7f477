package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestInsertOutcomes_RollsBackOnExecError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO decision_outcomes").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.InsertOutcomes(context.Background(), "field-1", sampleOutcomes())
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %s", err)
	}
}

func TestInsertOutcomes_CommitError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	for range sampleOutcomes() {
		mock.ExpectExec("INSERT INTO decision_outcomes").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err := s.InsertOutcomes(context.Background(), "field-1", sampleOutcomes())
	if err == nil {
		t.Fatal("expected commit error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %s", err)
	}
}

func TestCreateCollapse_UniqueViolationFromDriverMessage(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec("INSERT INTO collapsed_decisions").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: collapsed_decisions.decision_field_id (2067)"))

	_, err := s.CreateCollapse(context.Background(), Collapse{FieldID: "field-1", Synthesis: "x"})
	if !errors.Is(err, ErrAlreadyCollapsed) {
		t.Fatalf("expected ErrAlreadyCollapsed, got %v", err)
	}
}

func TestUpdateFieldStatus_NoRows(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec("UPDATE decision_fields").
		WithArgs("archived", sqlmock.AnyArg(), "field-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateFieldStatus(context.Background(), "user-1", "field-1", StatusArchived)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFields_QueryError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM decision_fields").WillReturnError(errors.New("connection reset"))

	if _, err := s.ListFields(context.Background(), "user-1"); err == nil {
		t.Fatal("expected query error")
	}
}

func TestGetCollapse_ScanError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM collapsed_decisions").WillReturnError(errors.New("boom"))

	c, err := s.GetCollapse(context.Background(), "field-1")
	if err == nil || c != nil {
		t.Fatalf("expected error and nil collapse, got %+v, %v", c, err)
	}
}
