package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const fieldColumns = `id, user_id, title, description, variables, status, intuition_weight, created_at, updated_at`

// #region create-field
// CreateField inserts a field owned by userID.
func (s *Store) CreateField(ctx context.Context, f Field) (Field, error) {
	if !f.Status.Valid() {
		return Field{}, fmt.Errorf("create field: invalid status %q", f.Status)
	}
	now := s.now()
	f.ID = uuid.New().String()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Variables == nil {
		f.Variables = map[string]any{}
	}
	vars, err := json.Marshal(f.Variables)
	if err != nil {
		return Field{}, fmt.Errorf("marshal variables: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decision_fields (`+fieldColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.Title, f.Description, string(vars), string(f.Status),
		f.IntuitionWeight, formatTime(now), formatTime(now),
	)
	if err != nil {
		return Field{}, fmt.Errorf("insert field: %w", err)
	}
	return f, nil
}

// #endregion create-field

// #region get-field
// GetField returns a field only if it belongs to userID.
func (s *Store) GetField(ctx context.Context, userID, id string) (Field, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM decision_fields WHERE id = ? AND user_id = ?`, id, userID)
	f, err := scanField(row)
	if err != nil {
		return Field{}, notFound(err, "get field")
	}
	return f, nil
}

// #endregion get-field

// #region list-fields
// ListFields returns userID's fields, newest first.
func (s *Store) ListFields(ctx context.Context, userID string) ([]Field, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fieldColumns+` FROM decision_fields
		 WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// ListAllFields returns the most recent limit fields of every owner in
// chronological order. Used by operator tooling, never by the API.
func (s *Store) ListAllFields(ctx context.Context, limit int) ([]Field, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fieldColumns+` FROM decision_fields ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list all fields: %w", err)
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(fields)-1; i < j; i, j = i+1, j-1 {
		fields[i], fields[j] = fields[j], fields[i]
	}
	return fields, nil
}

// LookupField returns a field by id regardless of owner. Operator tooling only.
func (s *Store) LookupField(ctx context.Context, id string) (Field, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM decision_fields WHERE id = ?`, id)
	f, err := scanField(row)
	if err != nil {
		return Field{}, notFound(err, "lookup field")
	}
	return f, nil
}

// #endregion list-fields

// #region update-status
// UpdateFieldStatus moves a field owned by userID to status.
func (s *Store) UpdateFieldStatus(ctx context.Context, userID, id string, status FieldStatus) (Field, error) {
	if !status.Valid() {
		return Field{}, fmt.Errorf("update field: invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE decision_fields SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), formatTime(s.now()), id, userID,
	)
	if err != nil {
		return Field{}, fmt.Errorf("update field status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Field{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return Field{}, fmt.Errorf("update field status: %w", ErrNotFound)
	}
	return s.GetField(ctx, userID, id)
}

// #endregion update-status

// #region scan
func scanField(row rowScanner) (Field, error) {
	var f Field
	var vars, status, created, updated string
	if err := row.Scan(&f.ID, &f.UserID, &f.Title, &f.Description, &vars, &status,
		&f.IntuitionWeight, &created, &updated); err != nil {
		return Field{}, err
	}
	f.Status = FieldStatus(status)
	f.Variables = map[string]any{}
	if vars != "" {
		if err := json.Unmarshal([]byte(vars), &f.Variables); err != nil {
			return Field{}, fmt.Errorf("unmarshal variables: %w", err)
		}
	}
	f.CreatedAt = parseTime(created)
	f.UpdatedAt = parseTime(updated)
	return f, nil
}

// #endregion scan
