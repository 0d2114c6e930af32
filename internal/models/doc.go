// Package models defines the core domain models for splitboard.
//
// A Board is a group of users who track habits and split shared expenses.
// An Expense belongs to exactly one board and carries a split type (equal,
// amount or percentage); the computed per-user shares are stored as
// ExpenseSplit rows, one per (expense, user).
//
// Splits are a derived projection: whenever an expense's amount, split
// type or participant set changes they are recomputed wholesale, never
// edited line by line. Balances are computed on demand and never persisted.
//
// Monetary fields are shopspring decimals; relationships are ID strings
// rather than pointers to avoid circular references.
package models
