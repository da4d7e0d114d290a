package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	chem "Alutherm/internal/chem"
)

type Profile struct {
	ID           int        `json:"id"`
	Login        string     `json:"login"`
	Email        string     `json:"email"`
	Description  string     `json:"description"`
	AvatarURL    string     `json:"avatar_url"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
}

type SavedComposition struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Composition chem.Composition `json:"composition"`
	CreatedAt   time.Time        `json:"created_at"`
}

type PremiumTicket struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
	GetProfileByID(ctx context.Context, id int) (Profile, error)
	UpdateProfile(ctx context.Context, id int, login, description string) (int64, error)
	UpdateAvatar(ctx context.Context, id int, path string) error

	SetPremiumUntil(ctx context.Context, userID int, until time.Time) error
	ClearPremium(ctx context.Context, userID int) error
	CreatePremiumTicket(ctx context.Context, userID int) (int, error)
	GetPremiumTicket(ctx context.Context, id int) (PremiumTicket, error)
	UpdatePremiumTicketStatus(ctx context.Context, id int, status string) error

	SaveComposition(ctx context.Context, userID int, name string, comp chem.Composition) (int, error)
	ListCompositions(ctx context.Context, userID int) ([]SavedComposition, error)
	DeleteComposition(ctx context.Context, userID, id int) error
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) GetProfileByID(ctx context.Context, id int) (Profile, error) {
	var p Profile
	var desc, avatar sql.NullString
	var until sql.NullTime
	query := "SELECT id, login, email, description, avatar_url, premium_until FROM users WHERE id=$1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Login, &p.Email, &desc, &avatar, &until)
	if err != nil {
		return Profile{}, err
	}
	p.Description = desc.String
	p.AvatarURL = avatar.String
	if until.Valid {
		t := until.Time
		p.PremiumUntil = &t
		p.IsPremium = time.Now().Before(t)
	}
	return p, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id int, login, description string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET login=$1, description=$2 WHERE id=$3", login, description, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id int, path string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET avatar_url=$1 WHERE id=$2", path, id)
	return err
}

func (r *PostgresUserRepository) SetPremiumUntil(ctx context.Context, userID int, until time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET premium_until=$1 WHERE id=$2", until, userID)
	return err
}

func (r *PostgresUserRepository) ClearPremium(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET premium_until=NULL WHERE id=$1", userID)
	return err
}

func (r *PostgresUserRepository) CreatePremiumTicket(ctx context.Context, userID int) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO premium_tickets (user_id, status) VALUES ($1, 'pending') RETURNING id", userID).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetPremiumTicket(ctx context.Context, id int) (PremiumTicket, error) {
	var t PremiumTicket
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, status FROM premium_tickets WHERE id=$1", id).
		Scan(&t.ID, &t.UserID, &t.Status)
	return t, err
}

func (r *PostgresUserRepository) UpdatePremiumTicketStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE premium_tickets SET status=$1 WHERE id=$2", status, id)
	return err
}

func (r *PostgresUserRepository) SaveComposition(ctx context.Context, userID int, name string, comp chem.Composition) (int, error) {
	data, err := json.Marshal(comp)
	if err != nil {
		return 0, err
	}
	var id int
	err = r.db.QueryRowContext(ctx,
		"INSERT INTO compositions (user_id, name, data) VALUES ($1, $2, $3) RETURNING id",
		userID, name, data).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) ListCompositions(ctx context.Context, userID int) ([]SavedComposition, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, data, created_at FROM compositions WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedComposition
	for rows.Next() {
		var c SavedComposition
		var data []byte
		if err := rows.Scan(&c.ID, &c.Name, &data, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &c.Composition); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) DeleteComposition(ctx context.Context, userID, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM compositions WHERE id=$1 AND user_id=$2", id, userID)
	return err
}
