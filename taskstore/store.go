package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

type (
	// Store is the single handle to the relational database holding
	// users and their tasks. All task operations take the acting
	// principal explicitly and only ever touch rows owned by it.
	Store struct {
		db *sql.DB
	}

	Status string

	Task struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      Status `json:"status"`
		OwnerID     int64  `json:"owner_id"`
	}

	// TaskInput carries the client-controlled fields of a task. ID is
	// optional on create (zero means the store assigns one) and must
	// match the target task on update.
	TaskInput struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      Status `json:"status"`
	}

	User struct {
		ID           int64  `json:"id"`
		Username     string `json:"username"`
		Salt         []byte `json:"-"`
		PasswordHash []byte `json:"-"`
	}
)

const (
	StatusPending   = Status("pending")
	StatusCompleted = Status("completed")
)

// Open loads (creating if needed) the task database stored under dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory %v to store task database, cause %w", dir, err)
	}
	dbfile := filepath.Join(dir, "tasks.db")
	connstr := fmt.Sprintf("file:%v?_journal=wal&_foreign_keys=on&mode=rwc", dbfile)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", dbfile, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping task database %v, cause %w", dbfile, err)
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init task database %v, cause %w", dbfile, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			user_id integer not null primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			salt blob not null,
			password_hash blob not null
		)`,
		`create index if not exists idx_users_username_hash64
			on users(username_hash64)
		`,
		`create table if not exists tasks(
			task_id integer not null primary key,
			title text not null,
			description text not null,
			status text not null,
			owner_id integer not null,
			foreign key (owner_id) references users(user_id)
		)`,
		`create index if not exists idx_tasks_owner
			on tasks(owner_id)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

// InsertUser stores a fresh credential row. Username uniqueness is
// enforced by the unique constraint, the insert is the check.
func (s *Store) InsertUser(ctx context.Context, username string, salt, passwordHash []byte) (User, error) {
	u := User{Username: username, Salt: salt, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx, `insert into users (username, username_hash64, salt, password_hash) values (?, ?, ?, ?) returning user_id`,
		username, usernameHash(username), salt, passwordHash).Scan(&u.ID)
	if isConstraintViolation(err) {
		return User{}, DuplicateUsername{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to store user %v, cause %w", username, err)
	}
	return u, nil
}

// UserByName performs an exact, case-sensitive lookup.
func (s *Store) UserByName(ctx context.Context, username string) (User, error) {
	u := User{Username: username}
	err := s.db.QueryRowContext(ctx, `select user_id, salt, password_hash from users where username_hash64 = ? and username = ?`,
		usernameHash(username), username).Scan(&u.ID, &u.Salt, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to lookup user %v, cause %w", username, err)
	}
	return u, nil
}

// CreateTask validates input and inserts a task owned by principal.
// A client-supplied id collides against every task in the store, not
// just the principal's own. When the id is zero the store picks the
// next free one inside the same insert statement, so concurrent
// creates cannot both claim it.
func (s *Store) CreateTask(ctx context.Context, principal User, input TaskInput) (Task, error) {
	if err := input.Validate(); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          input.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		OwnerID:     principal.ID,
	}
	var err error
	if t.ID != 0 {
		_, err = s.db.ExecContext(ctx, `insert into tasks (task_id, title, description, status, owner_id) values (?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, t.Status, t.OwnerID)
	} else {
		err = s.db.QueryRowContext(ctx, `insert into tasks (task_id, title, description, status, owner_id)
			values ((select coalesce(max(task_id), 0) + 1 from tasks), ?, ?, ?, ?) returning task_id`,
			t.Title, t.Description, t.Status, t.OwnerID).Scan(&t.ID)
	}
	if isConstraintViolation(err) {
		return Task{}, DuplicateTaskID{ID: t.ID}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to store task, cause %w", err)
	}
	return t, nil
}

// Task returns the task with the given id if, and only if, it is
// owned by principal. A task owned by someone else is indistinguishable
// from a missing one.
func (s *Store) Task(ctx context.Context, principal User, id int64) (Task, error) {
	t := Task{ID: id, OwnerID: principal.ID}
	err := s.db.QueryRowContext(ctx, `select title, description, status from tasks where task_id = ? and owner_id = ?`,
		id, principal.ID).Scan(&t.Title, &t.Description, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, TaskNotFound{ID: id}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to load task %v, cause %w", id, err)
	}
	return t, nil
}

// Tasks lists the principal's tasks ordered by id. An empty filter
// means all statuses.
func (s *Store) Tasks(ctx context.Context, principal User, filter Status) ([]Task, error) {
	query := `select task_id, title, description, status from tasks where owner_id = ? order by task_id asc`
	args := []interface{}{principal.ID}
	if filter != "" {
		query = `select task_id, title, description, status from tasks where owner_id = ? and status = ? order by task_id asc`
		args = append(args, filter)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		t := Task{OwnerID: principal.ID}
		err = rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status)
		if err != nil {
			return nil, fmt.Errorf("unable to scan task to output, cause %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTask replaces the mutable fields of the principal's task. The
// id is immutable: an input carrying a different id fails before any
// row is touched.
func (s *Store) UpdateTask(ctx context.Context, principal User, id int64, input TaskInput) (Task, error) {
	if input.ID != 0 && input.ID != id {
		return Task{}, InvalidTask{Fields: []FieldError{{Field: "id", Reason: "task id is immutable"}}}
	}
	input.ID = 0
	if err := input.Validate(); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		OwnerID:     principal.ID,
	}
	res, err := s.db.ExecContext(ctx, `update tasks set title = ?, description = ?, status = ? where task_id = ? and owner_id = ?`,
		t.Title, t.Description, t.Status, id, principal.ID)
	if err != nil {
		return Task{}, fmt.Errorf("unable to update task %v, cause %w", id, err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return Task{}, fmt.Errorf("unable to update task %v, cause %w", id, err)
	}
	if changed == 0 {
		return Task{}, TaskNotFound{ID: id}
	}
	return t, nil
}

// DeleteTask permanently removes the principal's task. Same
// ownership-as-not-found rule as Task.
func (s *Store) DeleteTask(ctx context.Context, principal User, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from tasks where task_id = ? and owner_id = ?`, id, principal.ID)
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", id, err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", id, err)
	}
	if changed == 0 {
		return TaskNotFound{ID: id}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func usernameHash(username string) int64 {
	return int64(xxhash.Sum64String(username))
}

func isConstraintViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}
