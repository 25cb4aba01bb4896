package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup against the write pool to ensure tables exist.
// The CHECK constraints back up the transactional guards: the member
// counter can never exceed capacity and no vote tally can go negative.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_premium INTEGER NOT NULL DEFAULT 0,
    is_admin INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    car_model TEXT NOT NULL,
    brand TEXT NOT NULL,
    city TEXT NOT NULL,
    image_url TEXT NOT NULL,
    max_members INTEGER NOT NULL CHECK (max_members > 0),
    current_members INTEGER NOT NULL DEFAULT 0
        CHECK (current_members >= 0 AND current_members <= max_members),
    status TEXT NOT NULL DEFAULT 'forming',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    id TEXT NOT NULL UNIQUE,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_name TEXT NOT NULL,
    user_email TEXT NOT NULL,
    joined_at TEXT NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount REAL NOT NULL,
    car_model TEXT NOT NULL,
    variant TEXT NOT NULL,
    transmission TEXT NOT NULL,
    on_road_price REAL NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS car_preferences (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_name TEXT NOT NULL,
    car_model TEXT NOT NULL,
    variant TEXT NOT NULL,
    transmission TEXT NOT NULL,
    on_road_price REAL NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS dealer_offers (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    dealer_name TEXT NOT NULL,
    price REAL NOT NULL,
    delivery_time TEXT NOT NULL,
    bonus_items TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    created_at TEXT NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS votes (
    id TEXT NOT NULL UNIQUE,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    offer_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (offer_id) REFERENCES dealer_offers(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_memberships_group_id ON memberships(group_id);
CREATE INDEX IF NOT EXISTS idx_payments_group_id ON payments(group_id);
CREATE INDEX IF NOT EXISTS idx_car_preferences_group_id ON car_preferences(group_id);
CREATE INDEX IF NOT EXISTS idx_dealer_offers_group_id ON dealer_offers(group_id);
CREATE INDEX IF NOT EXISTS idx_votes_group_id ON votes(group_id);
CREATE INDEX IF NOT EXISTS idx_groups_status ON groups(status);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
