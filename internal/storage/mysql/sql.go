package mysql

const upsertDealerSQL = `
INSERT INTO dealers
  (id, full_name, city, state, address, zip, lat, lon, short_name)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  full_name  = VALUES(full_name),
  city       = VALUES(city),
  state      = VALUES(state),
  address    = VALUES(address),
  zip        = VALUES(zip),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  short_name = VALUES(short_name),
  updated_at = CURRENT_TIMESTAMP
`

const insertReviewSQL = `
INSERT INTO reviews
  (dealer_id, name, review, purchase, purchase_date, car_make, car_model, car_year, sentiment)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// LAST_INSERT_ID(id) makes the duplicate branch report the existing row's id,
// so a second seed run resolves to the same make.
const upsertMakeSQL = `
INSERT INTO car_makes
  (name, description, country, founded_year, website)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id          = LAST_INSERT_ID(id),
  description = VALUES(description),
  country     = COALESCE(VALUES(country), car_makes.country),
  founded_year = COALESCE(VALUES(founded_year), car_makes.founded_year),
  website     = COALESCE(VALUES(website), car_makes.website)
`

const upsertModelSQL = `
INSERT INTO car_models
  (make_id, name, type, year, engine_type, fuel_type, transmission, color, price)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  type         = VALUES(type),
  year         = VALUES(year),
  engine_type  = COALESCE(VALUES(engine_type), car_models.engine_type),
  fuel_type    = COALESCE(VALUES(fuel_type), car_models.fuel_type),
  transmission = COALESCE(VALUES(transmission), car_models.transmission),
  color        = COALESCE(VALUES(color), car_models.color),
  price        = COALESCE(VALUES(price), car_models.price)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const dealerColumns = `id, full_name, city, state, address, zip, lat, lon, short_name`

const listDealersSQL = `
SELECT ` + dealerColumns + `
FROM dealers
ORDER BY id
`

const listDealersByStateSQL = `
SELECT ` + dealerColumns + `
FROM dealers
WHERE state = ?
ORDER BY id
`

const getDealerSQL = `
SELECT ` + dealerColumns + `
FROM dealers
WHERE id = ?
`

const listReviewsSQL = `
SELECT
  id, dealer_id, name, review, purchase, purchase_date,
  car_make, car_model, car_year, sentiment
FROM reviews
WHERE dealer_id = ?
ORDER BY created_at DESC, id DESC
`

const countMakesSQL = `SELECT COUNT(*) FROM car_makes`

const listCatalogSQL = `
SELECT m.name, k.name
FROM car_models m
JOIN car_makes k ON k.id = m.make_id
ORDER BY k.name, m.name
`
