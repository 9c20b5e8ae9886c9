package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtyflow/api/internal/domain/property"
	"github.com/realtyflow/api/internal/observability"
)

type PropertiesRepo struct {
	pool *pgxpool.Pool
	obs  *observability.Prom
}

func NewPropertiesRepo(pool *pgxpool.Pool, obs *observability.Prom) *PropertiesRepo {
	return &PropertiesRepo{pool: pool, obs: obs}
}

// NUMERIC columns come back as text so the decimal strings survive the
// round trip unchanged.
const propertyColumns = `id,
	title,
	description,
	price::text,
	address,
	city,
	state,
	zip_code,
	property_type,
	status,
	bedrooms,
	bathrooms::text,
	square_feet,
	year_built,
	lot_size::text,
	garage,
	image_url,
	features,
	created_by,
	created_at,
	updated_at`

func scanProperty(row pgx.Row) (property.Property, error) {
	var p property.Property

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.PropertyType,
		&p.Status,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareFeet,
		&p.YearBuilt,
		&p.LotSize,
		&p.Garage,
		&p.ImageURL,
		&p.Features,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	return p, err
}

func (r *PropertiesRepo) Create(ctx context.Context, req property.CreateRequest, creatorID string) (property.Property, error) {
	p := property.NewFromCreateRequest(req, creatorID)

	err := r.obs.ObserveDB("properties.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO properties(
				id, title, description, price, address, city, state, zip_code,
				property_type, status, bedrooms, bathrooms, square_feet,
				year_built, lot_size, garage, image_url, features, created_by,
				created_at, updated_at)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
			p.ID, p.Title, p.Description, p.Price, p.Address, p.City, p.State, p.ZipCode,
			p.PropertyType, p.Status, p.Bedrooms, p.Bathrooms, p.SquareFeet,
			p.YearBuilt, p.LotSize, p.Garage, p.ImageURL, p.Features, p.CreatedBy,
			p.CreatedAt, p.UpdatedAt)
		return err
	})

	if err != nil {
		return property.Property{}, err
	}

	return p, nil
}

// List returns the whole catalog. No pagination at this scale; ordering is
// stable by creation time so repeated fetches agree.
func (r *PropertiesRepo) List(ctx context.Context) ([]property.Property, error) {
	var output []property.Property

	err := r.obs.ObserveDB("properties.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+propertyColumns+`
			FROM properties
			ORDER BY created_at ASC, id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]property.Property, 0, 32)

		for rows.Next() {
			p, err := scanProperty(rows)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *PropertiesRepo) GetByID(ctx context.Context, id string) (property.Property, error) {
	var p property.Property

	err := r.obs.ObserveDB("properties.get_by_id", func() error {
		var err error
		p, err = scanProperty(r.pool.QueryRow(ctx,
			`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property.Property{}, property.ErrNotFound
		}
		return property.Property{}, err
	}

	return p, nil
}

// Update merges the non-nil patch fields onto the stored row and refreshes
// updated_at. The SET clause is built the same way List's filters used to
// be on the events board: positional args appended per present field.
func (r *PropertiesRepo) Update(ctx context.Context, id string, req property.UpdateRequest) (property.Property, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	argsPosition := 2

	addSet := func(column string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, val)
		argsPosition++
	}

	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.Address != nil {
		addSet("address", *req.Address)
	}
	if req.City != nil {
		addSet("city", *req.City)
	}
	if req.State != nil {
		addSet("state", *req.State)
	}
	if req.ZipCode != nil {
		addSet("zip_code", *req.ZipCode)
	}
	if req.PropertyType != nil {
		addSet("property_type", *req.PropertyType)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.Bedrooms != nil {
		addSet("bedrooms", *req.Bedrooms)
	}
	if req.Bathrooms != nil {
		addSet("bathrooms", *req.Bathrooms)
	}
	if req.SquareFeet != nil {
		addSet("square_feet", *req.SquareFeet)
	}
	if req.YearBuilt != nil {
		addSet("year_built", *req.YearBuilt)
	}
	if req.LotSize != nil {
		addSet("lot_size", *req.LotSize)
	}
	if req.Garage != nil {
		addSet("garage", *req.Garage)
	}
	if req.ImageURL != nil {
		addSet("image_url", *req.ImageURL)
	}
	if req.Features != nil {
		addSet("features", req.Features)
	}

	query := `UPDATE properties
		SET ` + strings.Join(sets, ",\n\t\t\t") + `
		WHERE id = $1
		RETURNING ` + propertyColumns

	var p property.Property

	err := r.obs.ObserveDB("properties.update", func() error {
		var err error
		p, err = scanProperty(r.pool.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property.Property{}, property.ErrNotFound
		}
		return property.Property{}, err
	}

	return p, nil
}

// Delete is idempotent: removing an id that is already gone is a success.
func (r *PropertiesRepo) Delete(ctx context.Context, id string) error {
	return r.obs.ObserveDB("properties.delete", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
		return err
	})
}
