// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/notify"
	"github.com/danielhkuo/votedesk/store"
	"github.com/danielhkuo/votedesk/testutil"
)

type sentMessage struct {
	To, Subject, Body string
}

// recordingNotifier keeps every message instead of sending it
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (n *recordingNotifier) Notify(_ context.Context, email, subject, body string) error {
	if n.fail {
		return &notify.DeliveryError{To: email, Err: errors.New("relay unavailable")}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{To: email, Subject: subject, Body: body})
	return nil
}

type testEnv struct {
	conn     *sql.DB
	store    *store.Store
	issuer   *auth.TokenIssuer
	notifier *recordingNotifier
	users    *UserHandler
	surveys  *SurveyHandler
	voting   *VotingHandler
	results  *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	issuer := testutil.TestIssuer()
	notifier := &recordingNotifier{}
	log := testutil.TestLogger()

	return &testEnv{
		conn:     conn,
		store:    st,
		issuer:   issuer,
		notifier: notifier,
		users:    NewUserHandler(st.Users, issuer, notifier, log),
		surveys:  NewSurveyHandler(st.Surveys, log),
		voting:   NewVotingHandler(st.Votes, log),
		results:  NewResultsHandler(st.Results, log),
	}
}

// withID sets the {id} path value the router would have matched
func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
