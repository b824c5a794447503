package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

// newMySQLTestStore connects to the database named by TEST_MYSQL_DSN, or
// skips the test when the variable is unset:
//
//	TEST_MYSQL_DSN="user:pass@tcp(localhost:3306)/wiregraph_test" go test ./graph/store/
func newMySQLTestStore(t *testing.T) *MySQLStore[testDoc] {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set; skipping MySQL store tests")
	}
	st, err := NewMySQLStore[testDoc](dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestMySQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newMySQLTestStore(t)

	// Unique graph ID per run so reruns against a shared database don't
	// collide.
	graphID := fmt.Sprintf("test-%d", time.Now().UnixNano())

	if _, _, err := st.LoadLatest(ctx, graphID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("fresh graph error = %v, want ErrNotFound", err)
	}

	if err := st.SaveRevision(ctx, graphID, 1, testDoc{Name: "v1"}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveRevision(ctx, graphID, 2, testDoc{Name: "v2"}); err != nil {
		t.Fatal(err)
	}

	doc, rev, err := st.LoadLatest(ctx, graphID)
	if err != nil || rev != 2 || doc.Name != "v2" {
		t.Errorf("LoadLatest = (%+v, %d, %v)", doc, rev, err)
	}

	label := graphID + "-snap"
	if err := st.SaveSnapshot(ctx, label, testDoc{Name: "snap"}, 2); err != nil {
		t.Fatal(err)
	}
	doc, rev, err = st.LoadSnapshot(ctx, label)
	if err != nil || rev != 2 || doc.Name != "snap" {
		t.Errorf("LoadSnapshot = (%+v, %d, %v)", doc, rev, err)
	}
}

func TestMySQLStorePing(t *testing.T) {
	st := newMySQLTestStore(t)
	if err := st.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
