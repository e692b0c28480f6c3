package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Evento represents a scheduled festival activity (show, workshop, parade).
// The wire names stay in Portuguese to match the storefront the API was built
// for.  CountryID is nullable: events need not be country-specific.
type Evento struct {
	ID            uint64    `json:"id"`
	Titulo        string    `json:"titulo"`
	Descricao     string    `json:"descricao"`
	Dia           string    `json:"dia"` // YYYY-MM-DD
	HorarioInicio string    `json:"horario_inicio"`
	HorarioFim    string    `json:"horario_fim"`
	Local         string    `json:"local"`
	ImagemURL     *string   `json:"imagem_url"`
	CountryID     *uint64   `json:"countryId"`
	IsFeatured    bool      `json:"isFeatured"`
	Order         int       `json:"order"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EventoWithCountry joins an event with its country when one is set; Country
// is nil for festival-wide events (the join is a LEFT JOIN, unlike dishes).
type EventoWithCountry struct {
	Evento
	Country *Country `json:"country"`
}

// ErrEventoNotFound is returned when an event cannot be found in the DB.
var ErrEventoNotFound = errors.New("evento not found")

// EventoRepo encapsulates all database queries related to events.
type EventoRepo struct {
	db *sql.DB
}

// NewEventoRepo constructs an EventoRepo with the provided DB handle.
func NewEventoRepo(db *sql.DB) *EventoRepo {
	return &EventoRepo{db: db}
}

const eventoJoinCols = `e.id, e.titulo, e.descricao, e.dia, e.horario_inicio, e.horario_fim,
	e.local, e.imagem_url, e.country_id, e.is_featured, e.display_order,
	e.is_active, e.created_at, e.updated_at,
	c.id, c.name, c.flag_emoji, c.flag_image, c.display_order, c.is_active, c.created_at`

func scanEventoWithCountry(row interface{ Scan(...any) error }, ev *EventoWithCountry) error {
	var (
		cID        sql.NullInt64
		cName      sql.NullString
		cFlag      sql.NullString
		cFlagImage sql.NullString
		cOrder     sql.NullInt64
		cActive    sql.NullBool
		cCreated   sql.NullTime
	)
	if err := row.Scan(
		&ev.ID, &ev.Titulo, &ev.Descricao, &ev.Dia, &ev.HorarioInicio, &ev.HorarioFim,
		&ev.Local, &ev.ImagemURL, &ev.CountryID, &ev.IsFeatured, &ev.Order,
		&ev.IsActive, &ev.CreatedAt, &ev.UpdatedAt,
		&cID, &cName, &cFlag, &cFlagImage, &cOrder, &cActive, &cCreated,
	); err != nil {
		return err
	}
	if cID.Valid {
		c := &Country{
			ID:        uint64(cID.Int64),
			Name:      cName.String,
			FlagEmoji: cFlag.String,
			Order:     int(cOrder.Int64),
			IsActive:  cActive.Bool,
			CreatedAt: cCreated.Time,
		}
		if cFlagImage.Valid {
			v := cFlagImage.String
			c.FlagImage = &v
		}
		ev.Country = c
	}
	return nil
}

// List returns active events, optionally filtered to a single day, each with
// its country when one is set.  Ordering: day, start time, display position.
// The active filter always applies regardless of the day parameter.
func (r *EventoRepo) List(ctx context.Context, dia string) ([]EventoWithCountry, error) {
	where := []string{"e.is_active = TRUE"}
	args := []any{}
	if d := strings.TrimSpace(dia); d != "" {
		where = append(where, "e.dia = ?")
		args = append(args, d)
	}

	q := `SELECT ` + eventoJoinCols + `
		FROM eventos e
		LEFT JOIN countries c ON c.id = e.country_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.dia, e.horario_inicio, e.display_order`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EventoWithCountry{}
	for rows.Next() {
		var ev EventoWithCountry
		if err := scanEventoWithCountry(rows, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single event (active or not) with its optional country.
func (r *EventoRepo) GetByID(ctx context.Context, id uint64) (*EventoWithCountry, error) {
	q := `SELECT ` + eventoJoinCols + `
		FROM eventos e
		LEFT JOIN countries c ON c.id = e.country_id
		WHERE e.id = ?`
	var ev EventoWithCountry
	if err := scanEventoWithCountry(r.db.QueryRowContext(ctx, q, id), &ev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventoNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event and returns the joined read shape.
func (r *EventoRepo) Create(ctx context.Context, e *Evento) (*EventoWithCountry, error) {
	const q = `INSERT INTO eventos
		(titulo, descricao, dia, horario_inicio, horario_fim, local, imagem_url,
		 country_id, is_featured, display_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.Titulo, e.Descricao, e.Dia, e.HorarioInicio, e.HorarioFim, e.Local,
		e.ImagemURL, e.CountryID, e.IsFeatured, e.Order, e.IsActive)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update replaces every mutable field of an event and returns the fresh read
// shape.  ErrEventoNotFound when the id does not exist.
func (r *EventoRepo) Update(ctx context.Context, id uint64, e *Evento) (*EventoWithCountry, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	const q = `UPDATE eventos
		SET titulo = ?, descricao = ?, dia = ?, horario_inicio = ?, horario_fim = ?,
		    local = ?, imagem_url = ?, country_id = ?, is_featured = ?,
		    display_order = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		e.Titulo, e.Descricao, e.Dia, e.HorarioInicio, e.HorarioFim, e.Local,
		e.ImagemURL, e.CountryID, e.IsFeatured, e.Order, e.IsActive, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event.  ErrEventoNotFound when the id does not exist.
func (r *EventoRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM eventos WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventoNotFound
	}
	return nil
}
