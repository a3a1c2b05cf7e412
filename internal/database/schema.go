package database

// Dates are stored as YYYY-MM-DD text on both engines.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS suppliers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    product TEXT NOT NULL,
    phone TEXT,
    email TEXT,
    address TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bird_batches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    supplier_id INTEGER,
    batch_code TEXT UNIQUE,
    quantity_received INTEGER NOT NULL,
    cost_per_bird REAL NOT NULL,
    date_received TEXT NOT NULL,
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
);

CREATE TABLE IF NOT EXISTS bird_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id INTEGER NOT NULL,
    event_type TEXT CHECK(event_type IN ('mortality', 'home_use')) NOT NULL,
    quantity INTEGER NOT NULL,
    event_date TEXT NOT NULL,
    notes TEXT,
    FOREIGN KEY (batch_id) REFERENCES bird_batches(id)
);

CREATE TABLE IF NOT EXISTS egg_batches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    supplier_id INTEGER NOT NULL,
    crates_received INTEGER NOT NULL,
    cost_per_crate REAL NOT NULL,
    date_received TEXT NOT NULL,
    FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
);

CREATE TABLE IF NOT EXISTS egg_grades (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    egg_batch_id INTEGER NOT NULL,
    size TEXT CHECK(size IN ('small', 'medium', 'large')) NOT NULL,
    quantity INTEGER NOT NULL,
    selling_price REAL NOT NULL,
    FOREIGN KEY (egg_batch_id) REFERENCES egg_batches(id)
);

CREATE TABLE IF NOT EXISTS inventory (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    supplier_id INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit TEXT NOT NULL,
    cost_per_unit REAL NOT NULL,
    date_added TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
);

CREATE TABLE IF NOT EXISTS feed_consumption (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id INTEGER NOT NULL,
    inventory_id INTEGER NOT NULL,
    quantity_used REAL NOT NULL,
    consumption_date TEXT NOT NULL,
    notes TEXT,
    FOREIGN KEY (batch_id) REFERENCES bird_batches(id),
    FOREIGN KEY (inventory_id) REFERENCES inventory(id)
);

CREATE TABLE IF NOT EXISTS egg_loss (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    egg_batch_id INTEGER NOT NULL,
    quantity_lost INTEGER NOT NULL,
    loss_date TEXT NOT NULL,
    reason TEXT,
    notes TEXT,
    created_at TIMESTAMP,
    FOREIGN KEY (egg_batch_id) REFERENCES egg_batches(id)
);

CREATE TABLE IF NOT EXISTS sales (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_name TEXT,
    customer_phone TEXT,
    sale_date TEXT NOT NULL,
    total_amount REAL NOT NULL,
    payment_method TEXT CHECK(payment_method IN ('cash', 'mobile_money', 'bank_transfer', 'credit')) NOT NULL,
    amount_paid REAL DEFAULT 0,
    change_amount REAL DEFAULT 0,
    debt_amount REAL DEFAULT 0,
    status TEXT DEFAULT 'completed',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sales_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_id INTEGER NOT NULL,
    item_type TEXT CHECK(item_type IN ('broiler', 'egg')) NOT NULL,
    reference_id INTEGER,
    quantity INTEGER NOT NULL,
    unit_price REAL NOT NULL,
    subtotal REAL NOT NULL,
    FOREIGN KEY (sale_id) REFERENCES sales(id)
);

CREATE TABLE IF NOT EXISTS payment_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_id INTEGER NOT NULL,
    amount_paid REAL NOT NULL,
    payment_date TEXT NOT NULL,
    payment_method TEXT CHECK(payment_method IN ('cash', 'mobile_money', 'bank_transfer')),
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (sale_id) REFERENCES sales(id)
);

CREATE TABLE IF NOT EXISTS return_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_id INTEGER NOT NULL,
    change_amount REAL NOT NULL,
    return_date TEXT NOT NULL,
    returned_by TEXT,
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (sale_id) REFERENCES sales(id)
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS suppliers (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    product TEXT NOT NULL,
    phone TEXT,
    email TEXT,
    address TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bird_batches (
    id BIGSERIAL PRIMARY KEY,
    supplier_id BIGINT REFERENCES suppliers(id),
    batch_code TEXT UNIQUE,
    quantity_received INTEGER NOT NULL,
    cost_per_bird DOUBLE PRECISION NOT NULL,
    date_received TEXT NOT NULL,
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bird_events (
    id BIGSERIAL PRIMARY KEY,
    batch_id BIGINT NOT NULL REFERENCES bird_batches(id),
    event_type TEXT CHECK(event_type IN ('mortality', 'home_use')) NOT NULL,
    quantity INTEGER NOT NULL,
    event_date TEXT NOT NULL,
    notes TEXT
);

CREATE TABLE IF NOT EXISTS egg_batches (
    id BIGSERIAL PRIMARY KEY,
    supplier_id BIGINT NOT NULL REFERENCES suppliers(id),
    crates_received INTEGER NOT NULL,
    cost_per_crate DOUBLE PRECISION NOT NULL,
    date_received TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS egg_grades (
    id BIGSERIAL PRIMARY KEY,
    egg_batch_id BIGINT NOT NULL REFERENCES egg_batches(id),
    size TEXT CHECK(size IN ('small', 'medium', 'large')) NOT NULL,
    quantity INTEGER NOT NULL,
    selling_price DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory (
    id BIGSERIAL PRIMARY KEY,
    supplier_id BIGINT NOT NULL REFERENCES suppliers(id),
    item_name TEXT NOT NULL,
    quantity DOUBLE PRECISION NOT NULL,
    unit TEXT NOT NULL,
    cost_per_unit DOUBLE PRECISION NOT NULL,
    date_added TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS feed_consumption (
    id BIGSERIAL PRIMARY KEY,
    batch_id BIGINT NOT NULL REFERENCES bird_batches(id),
    inventory_id BIGINT NOT NULL REFERENCES inventory(id),
    quantity_used DOUBLE PRECISION NOT NULL,
    consumption_date TEXT NOT NULL,
    notes TEXT
);

CREATE TABLE IF NOT EXISTS egg_loss (
    id BIGSERIAL PRIMARY KEY,
    egg_batch_id BIGINT NOT NULL REFERENCES egg_batches(id),
    quantity_lost INTEGER NOT NULL,
    loss_date TEXT NOT NULL,
    reason TEXT,
    notes TEXT,
    created_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sales (
    id BIGSERIAL PRIMARY KEY,
    customer_name TEXT,
    customer_phone TEXT,
    sale_date TEXT NOT NULL,
    total_amount DOUBLE PRECISION NOT NULL,
    payment_method TEXT CHECK(payment_method IN ('cash', 'mobile_money', 'bank_transfer', 'credit')) NOT NULL,
    amount_paid DOUBLE PRECISION DEFAULT 0,
    change_amount DOUBLE PRECISION DEFAULT 0,
    debt_amount DOUBLE PRECISION DEFAULT 0,
    status TEXT DEFAULT 'completed',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sales_items (
    id BIGSERIAL PRIMARY KEY,
    sale_id BIGINT NOT NULL REFERENCES sales(id),
    item_type TEXT CHECK(item_type IN ('broiler', 'egg')) NOT NULL,
    reference_id BIGINT,
    quantity INTEGER NOT NULL,
    unit_price DOUBLE PRECISION NOT NULL,
    subtotal DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_history (
    id BIGSERIAL PRIMARY KEY,
    sale_id BIGINT NOT NULL REFERENCES sales(id),
    amount_paid DOUBLE PRECISION NOT NULL,
    payment_date TEXT NOT NULL,
    payment_method TEXT CHECK(payment_method IN ('cash', 'mobile_money', 'bank_transfer')),
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS return_history (
    id BIGSERIAL PRIMARY KEY,
    sale_id BIGINT NOT NULL REFERENCES sales(id),
    change_amount DOUBLE PRECISION NOT NULL,
    return_date TEXT NOT NULL,
    returned_by TEXT,
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Indexes are created after the migrations so that rebuilt tables get them too.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_bird_events_batch ON bird_events(batch_id, event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_egg_grades_batch ON egg_grades(egg_batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_egg_loss_batch ON egg_loss(egg_batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_consumption_batch ON feed_consumption(batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_items_sale ON sales_items(sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_items_reference ON sales_items(item_type, reference_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_history_sale ON payment_history(sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_return_history_sale ON return_history(sale_id)`,
}

type columnDef struct {
	name string
	ddl  string
}

// salesOptionalColumns are the sales columns added after the first release.
var salesOptionalColumns = []columnDef{
	{"customer_name", "TEXT"},
	{"customer_phone", "TEXT"},
	{"amount_paid", "REAL DEFAULT 0"},
	{"change_amount", "REAL DEFAULT 0"},
	{"debt_amount", "REAL DEFAULT 0"},
	{"status", "TEXT DEFAULT 'completed'"},
}

var eggLossOptionalColumns = []columnDef{
	{"notes", "TEXT"},
	{"created_at", "TIMESTAMP"},
}
