package mysql

import (
	"context"
	"database/sql"

	"dealerhub/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertDealer(ctx context.Context, d domain.Dealer) error {
	_, err := r.db.ExecContext(ctx, upsertDealerSQL,
		d.ID,
		d.FullName,
		d.City,
		d.State,
		d.Address,
		d.Zip,
		valF64(d.Lat),
		valF64(d.Long),
		valStr(d.ShortName),
	)
	return err
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (int64, error) {
	var purchaseDate any
	if rv.PurchaseDate != nil {
		purchaseDate = rv.PurchaseDate.Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.DealerID,
		rv.Name,
		rv.Text,
		rv.Purchase,
		purchaseDate,
		valStr(rv.CarMake),
		valStr(rv.CarModel),
		valInt(rv.CarYear),
		string(rv.Sentiment),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpsertMake(ctx context.Context, m domain.VehicleMake) (int64, error) {
	res, err := r.db.ExecContext(ctx, upsertMakeSQL,
		m.Name,
		m.Description,
		valStr(m.Country),
		valInt(m.FoundedYear),
		valStr(m.Website),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpsertModel(ctx context.Context, m domain.VehicleModel) error {
	_, err := r.db.ExecContext(ctx, upsertModelSQL,
		m.MakeID,
		m.Name,
		m.Type,
		m.Year,
		valStr(m.Engine),
		valStr(m.Fuel),
		valStr(m.Transmission),
		valStr(m.Color),
		valF64(m.Price),
	)
	return err
}

func scanDealer(row interface{ Scan(...any) error }) (domain.Dealer, error) {
	var d domain.Dealer
	var lat, lon sql.NullFloat64
	var shortName sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.City,
		&d.State,
		&d.Address,
		&d.Zip,
		&lat, &lon,
		&shortName,
	); err != nil {
		return domain.Dealer{}, err
	}
	if lat.Valid {
		v := lat.Float64
		d.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		d.Long = &v
	}
	if shortName.Valid {
		s := shortName.String
		d.ShortName = &s
	}
	return d, nil
}

func (r *Repo) ListDealers(ctx context.Context, state string) ([]domain.Dealer, error) {
	q, args := listDealersSQL, []any{}
	if state != "" {
		q, args = listDealersByStateSQL, []any{state}
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Dealer
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) GetDealer(ctx context.Context, id int64) (domain.Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx, getDealerSQL, id))
	if err == sql.ErrNoRows {
		return domain.Dealer{}, domain.ErrNotFound
	}
	return d, err
}

func (r *Repo) ListReviewsByDealer(ctx context.Context, dealerID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, dealerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			purchaseDate sql.NullTime
			carMake      sql.NullString
			carModel     sql.NullString
			carYear      sql.NullInt64
			sentiment    string
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.DealerID,
			&rv.Name,
			&rv.Text,
			&rv.Purchase,
			&purchaseDate,
			&carMake,
			&carModel,
			&carYear,
			&sentiment,
		); err != nil {
			return nil, err
		}
		if purchaseDate.Valid {
			t := purchaseDate.Time
			rv.PurchaseDate = &t
		}
		if carMake.Valid {
			s := carMake.String
			rv.CarMake = &s
		}
		if carModel.Valid {
			s := carModel.String
			rv.CarModel = &s
		}
		if carYear.Valid {
			y := int(carYear.Int64)
			rv.CarYear = &y
		}
		rv.Sentiment = domain.Label(sentiment)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) CountMakes(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countMakesSQL).Scan(&n)
	return n, err
}

func (r *Repo) ListCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx, listCatalogSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.CarModel, &e.CarMake); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
