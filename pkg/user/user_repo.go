package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	currency := user.Settings.Currency
	if currency == "" {
		currency = "USD"
	}
	query := `INSERT INTO users (uid, email, display_name, currency, date_format, theme, language, onboarding_completed)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Email,
		user.DisplayName,
		currency,
		user.Settings.DateFormat,
		user.Settings.Theme,
		user.Settings.Language,
		user.Settings.OnboardingCompleted,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, email, display_name, currency, date_format, theme, language, onboarding_completed
				FROM users WHERE id = $1`
	var user User
	err := u.db.QueryRow(ctx, query, id).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.DisplayName,
			&user.Settings.Currency,
			&user.Settings.DateFormat,
			&user.Settings.Theme,
			&user.Settings.Language,
			&user.Settings.OnboardingCompleted,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user with id %d not found", id)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, email, display_name, currency, date_format, theme, language, onboarding_completed
				FROM users WHERE uid = $1`
	var user User
	err := u.db.QueryRow(ctx, query, uid).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.DisplayName,
			&user.Settings.Currency,
			&user.Settings.DateFormat,
			&user.Settings.Theme,
			&user.Settings.Language,
			&user.Settings.OnboardingCompleted,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("user with uid %s not found", uid)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET display_name = $1, currency = $2, date_format = $3, theme = $4, language = $5,
				onboarding_completed = $6, updated_at = now() WHERE id = $7`
	tag, err := u.db.Exec(ctx, query,
		user.DisplayName,
		user.Settings.Currency,
		user.Settings.DateFormat,
		user.Settings.Theme,
		user.Settings.Language,
		user.Settings.OnboardingCompleted,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}
	return u.GetUser(ctx, userId)
}

func (u *UserRepoImpl) DeleteUser(ctx context.Context, id int) error {
	tag, err := u.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Errorf("failed to delete user: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
