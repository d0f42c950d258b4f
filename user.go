package springbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/strmangle"
)

type User struct {
	ID       string
	Name     string
	Password string
}

type userRow struct {
	ID       string `boil:"id"`
	Name     string `boil:"name"`
	Password string `boil:"password"`
}

var userColumns = []string{"id", "name", "password"}

// UserDao stores users. Every operation opens its own connection through
// the ConnectionMaker and closes it before returning.
type UserDao struct {
	connectionMaker ConnectionMaker
}

func NewUserDao(connectionMaker ConnectionMaker) *UserDao {
	return &UserDao{
		connectionMaker: connectionMaker,
	}
}

func (d *UserDao) Add(ctx context.Context, user *User) error {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return err
	}
	defer db.Close()

	query := fmt.Sprintf(
		"INSERT INTO `users` (`%s`) VALUES (%s)",
		strings.Join(userColumns, "`,`"),
		strmangle.Placeholders(false, len(userColumns), 1, 1),
	)
	if _, err := queries.Raw(query, user.ID, user.Name, user.Password).ExecContext(ctx, db); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (d *UserDao) Get(ctx context.Context, id string) (*User, error) {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var row userRow
	err = queries.Raw("SELECT `id`, `name`, `password` FROM `users` WHERE `id` = ? LIMIT 1", id).
		Bind(ctx, db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user was not found (id: %s): %w", id, err)
		}

		return nil, fmt.Errorf("failed to get user (id: %s): %w", id, err)
	}

	return &User{
		ID:       row.ID,
		Name:     row.Name,
		Password: row.Password,
	}, nil
}

func (d *UserDao) List(ctx context.Context) ([]*User, error) {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var rows []*userRow
	err = queries.Raw("SELECT `id`, `name`, `password` FROM `users` ORDER BY `id`").
		Bind(ctx, db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return lo.Map(rows, func(r *userRow, _ int) *User {
		return &User{
			ID:       r.ID,
			Name:     r.Name,
			Password: r.Password,
		}
	}), nil
}

func (d *UserDao) GetCount(ctx context.Context) (int, error) {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	if err := queries.Raw("SELECT COUNT(*) FROM `users`").QueryRowContext(ctx, db).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (d *UserDao) Delete(ctx context.Context, user *User) error {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := queries.Raw("DELETE FROM `users` WHERE `id` = ?", user.ID).ExecContext(ctx, db); err != nil {
		return fmt.Errorf("failed to delete user (id: %s): %w", user.ID, err)
	}

	return nil
}

func (d *UserDao) DeleteAll(ctx context.Context) error {
	db, err := d.connectionMaker.MakeConnection()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := queries.Raw("DELETE FROM `users`").ExecContext(ctx, db); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	return nil
}
