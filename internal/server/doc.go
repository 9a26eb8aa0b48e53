// Package server implements the concurrent connection engine: a single
// accept loop feeding a fixed worker pool, an admission-controlled
// connection ledger, and the per-connection keep-alive state machine that
// drives the HTTP wire codec.
//
// Content resolution and configuration are external collaborators; the
// server receives a content.Provider and a resolved config.ServerConfig
// and never interprets doc_root or default_index itself.
package server
