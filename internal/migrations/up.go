// All migrations in one file; order is fixed by the list in migrations.go.
package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// 1 — schema_version + operators
func UpOperators(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INT PRIMARY KEY,
			name    TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS operators (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			phone         TEXT NOT NULL UNIQUE,
			role          TEXT NOT NULL DEFAULT 'operator' CHECK (role IN ('operator', 'admin')),
			password_hash TEXT NOT NULL,
			active        BOOLEAN NOT NULL DEFAULT true,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (1, 'create_operators')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 2 — job_orders
func UpJobOrders(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_orders (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_number        TEXT NOT NULL UNIQUE,
			customer          TEXT NOT NULL,
			address           TEXT NOT NULL,
			contact_name      TEXT,
			contact_phone     TEXT,
			operator_id       UUID REFERENCES operators(id),
			scheduled_date    DATE NOT NULL,
			arrival_time      TEXT,
			status            TEXT NOT NULL DEFAULT 'scheduled'
				CHECK (status IN ('scheduled', 'in_route', 'in_progress', 'completed', 'cancelled')),
			route_started_at  TIMESTAMPTZ,
			work_started_at   TIMESTAMPTZ,
			work_completed_at TIMESTAMPTZ,
			drive_hours       NUMERIC(6,2),
			production_hours  NUMERIC(6,2),
			total_hours       NUMERIC(6,2),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_job_orders_operator_active
		ON job_orders (operator_id) WHERE status IN ('in_route', 'in_progress')
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (2, 'create_job_orders')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 3 — workflow_progress
func UpWorkflowProgress(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workflow_progress (
			job_id                        UUID PRIMARY KEY REFERENCES job_orders(id) ON DELETE CASCADE,
			equipment_checklist_completed BOOLEAN NOT NULL DEFAULT false,
			sms_sent                      BOOLEAN NOT NULL DEFAULT false,
			jha_completed                 BOOLEAN NOT NULL DEFAULT false,
			silica_form_completed         BOOLEAN NOT NULL DEFAULT false,
			work_performed_completed      BOOLEAN NOT NULL DEFAULT false,
			pictures_submitted            BOOLEAN NOT NULL DEFAULT false,
			customer_signature_received   BOOLEAN NOT NULL DEFAULT false,
			current_step                  TEXT NOT NULL DEFAULT 'equipment_checklist',
			eta_warning                   BOOLEAN NOT NULL DEFAULT false,
			updated_at                    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (3, 'create_workflow_progress')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 4 — timecard_entries
func UpTimecardEntries(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS timecard_entries (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID NOT NULL REFERENCES operators(id),
			job_id     UUID REFERENCES job_orders(id),
			event      TEXT NOT NULL
				CHECK (event IN ('clock_in', 'clock_out', 'in_route', 'standby_start', 'standby_stop')),
			at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			latitude   DOUBLE PRECISION,
			longitude  DOUBLE PRECISION,
			accuracy   DOUBLE PRECISION,
			approved   BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_timecard_entries_user_at ON timecard_entries (user_id, at)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (4, 'create_timecard_entries')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 5 — standby_logs (partial unique index backs the one-open invariant)
func UpStandbyLogs(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS standby_logs (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_id         UUID NOT NULL REFERENCES job_orders(id),
			operator_id    UUID NOT NULL REFERENCES operators(id),
			started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			ended_at       TIMESTAMPTZ,
			duration_hours NUMERIC(6,2),
			reason         TEXT
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_standby_logs_open
		ON standby_logs (job_id, operator_id) WHERE ended_at IS NULL
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (5, 'create_standby_logs')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 6 — inventory_items
func UpInventoryItems(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS inventory_items (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name              TEXT NOT NULL,
			category          TEXT NOT NULL,
			manufacturer      TEXT,
			model             TEXT,
			size              TEXT,
			quantity_in_stock INT NOT NULL DEFAULT 0,
			quantity_assigned INT NOT NULL DEFAULT 0,
			reorder_level     INT NOT NULL DEFAULT 0,
			unit_price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			qr_payload        TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (6, 'create_inventory_items')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}
