package data

import "strings"

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`

const studyListsSchema = `
CREATE TABLE IF NOT EXISTS study_lists (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT,
    cycle_duration INTEGER NOT NULL CHECK (cycle_duration > 0), -- presets are checked by the API, not here
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`

const studyItemsSchema = `
CREATE TABLE IF NOT EXISTS study_items (
    id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL REFERENCES study_lists(id) ON DELETE CASCADE,
    title TEXT NOT NULL CHECK (title <> ''),
    estimated_time INTEGER NOT NULL CHECK (estimated_time > 0),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    order_index INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`

const studyCyclesSchema = `
CREATE TABLE IF NOT EXISTS study_cycles (
    id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL REFERENCES study_lists(id) ON DELETE CASCADE,
    cycle_number INTEGER NOT NULL CHECK (cycle_number > 0),
    total_time INTEGER NOT NULL,
    completed_at TIMESTAMP NOT NULL,
    UNIQUE (list_id, cycle_number)
)`

const cycleIntentsSchema = `
CREATE TABLE IF NOT EXISTS cycle_intents (
    id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL REFERENCES study_lists(id) ON DELETE CASCADE,
    cycle_number INTEGER NOT NULL,
    total_time INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`

const indexesSchema = `
CREATE INDEX IF NOT EXISTS idx_study_lists_user ON study_lists (user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_study_items_list ON study_items (list_id, order_index);
CREATE INDEX IF NOT EXISTS idx_cycle_intents_status ON cycle_intents (status)`

// schemaStatements returns the idempotent DDL, one statement per entry, in
// dependency order. The SQL is shared by sqlite and postgres.
func schemaStatements() []string {
	stmts := []string{usersSchema, studyListsSchema, studyItemsSchema, studyCyclesSchema, cycleIntentsSchema}
	for _, idx := range strings.Split(indexesSchema, ";") {
		if strings.TrimSpace(idx) != "" {
			stmts = append(stmts, idx)
		}
	}
	return stmts
}
