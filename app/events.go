/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package app

import (
	"context"
	"time"

	"vizgres/config"
	"vizgres/db"

	tea "github.com/charmbracelet/bubbletea"
)

/*
Database work never runs inside Update. Each request is a detached tea.Cmd
that returns a tagged message; bubbletea delivers messages serially, so
completions interleave only between key events. Every message carries the
generation it was spawned under — cancellation bumps the generation and the
stale completion is discarded on arrival.
*/

// queryDoneMsg is the completion of an ExecuteQuery task.
type queryDoneMsg struct {
	gen     uint64
	results db.QueryResults
	err     error
}

// schemaDoneMsg is the completion of a GetSchema task.
type schemaDoneMsg struct {
	gen  uint64
	tree db.SchemaTree
	err  error
}

// connectDoneMsg is the completion of a Connect task.
type connectDoneMsg struct {
	gen     uint64
	handle  db.Database
	profile config.Profile
	err     error
}

// statusTickMsg drives status-message expiry.
type statusTickMsg time.Time

const statusTickInterval = time.Second

func statusTick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func runQueryCmd(ctx context.Context, database db.Database, sql string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		results, err := database.ExecuteQuery(ctx, sql)
		return queryDoneMsg{gen: gen, results: results, err: err}
	}
}

func loadSchemaCmd(ctx context.Context, database db.Database, gen uint64) tea.Cmd {
	return func() tea.Msg {
		tree, err := database.GetSchema(ctx)
		return schemaDoneMsg{gen: gen, tree: tree, err: err}
	}
}

func connectCmd(ctx context.Context, profile config.Profile, timeout time.Duration, gen uint64) tea.Cmd {
	return func() tea.Msg {
		handle, err := db.Connect(ctx, profile.ConnString(), timeout)
		if err != nil {
			return connectDoneMsg{gen: gen, err: err, profile: profile}
		}
		return connectDoneMsg{gen: gen, handle: handle, profile: profile}
	}
}
