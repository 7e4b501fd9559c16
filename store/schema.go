package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    DATETIME NOT NULL,
		last_login    DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		reference      TEXT PRIMARY KEY,
		guest_name     TEXT NOT NULL,
		guest_email    TEXT NOT NULL,
		guest_phone    TEXT NOT NULL DEFAULT '',
		room_name      TEXT NOT NULL DEFAULT '',
		check_in       DATETIME NOT NULL,
		check_out      DATETIME NOT NULL,
		guests         INTEGER NOT NULL DEFAULT 1,
		total_amount   INTEGER NOT NULL,
		status         TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		created_at     DATETIME NOT NULL,
		updated_at     DATETIME NOT NULL,
		confirmation_sent_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS payment_transactions (
		invoice_number    TEXT PRIMARY KEY,
		booking_reference TEXT NOT NULL REFERENCES bookings(reference) ON DELETE CASCADE,
		amount            INTEGER NOT NULL,
		status            TEXT NOT NULL,
		payment_url       TEXT NOT NULL DEFAULT '',
		created_at        DATETIME NOT NULL,
		updated_at        DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_transactions_booking ON payment_transactions(booking_reference)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		last_login    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		reference      TEXT PRIMARY KEY,
		guest_name     TEXT NOT NULL,
		guest_email    TEXT NOT NULL,
		guest_phone    TEXT NOT NULL DEFAULT '',
		room_name      TEXT NOT NULL DEFAULT '',
		check_in       TIMESTAMPTZ NOT NULL,
		check_out      TIMESTAMPTZ NOT NULL,
		guests         INTEGER NOT NULL DEFAULT 1,
		total_amount   BIGINT NOT NULL,
		status         TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		confirmation_sent_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS payment_transactions (
		invoice_number    TEXT PRIMARY KEY,
		booking_reference TEXT NOT NULL REFERENCES bookings(reference) ON DELETE CASCADE,
		amount            BIGINT NOT NULL,
		status            TEXT NOT NULL,
		payment_url       TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_transactions_booking ON payment_transactions(booking_reference)`,
}
