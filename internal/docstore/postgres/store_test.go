package postgres

import (
	"strings"
	"testing"

	"livestock/internal/docstore"
)

func TestBuildUpdate_NoConditions(t *testing.T) {
	t.Parallel()

	query, args := buildUpdate("jobs", "J1", []byte(`{"status":"accepted"}`), nil)

	if !strings.HasSuffix(query, "WHERE collection = $1 AND id = $2") {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 3 || args[0] != "jobs" || args[1] != "J1" || args[2] != `{"status":"accepted"}` {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_Conditions(t *testing.T) {
	t.Parallel()

	query, args := buildUpdate("jobs", "J1", []byte(`{}`), []docstore.Condition{
		docstore.FieldEquals("status", "pending"),
		docstore.FieldEquals("transporter_id", "T1"),
	})

	if !strings.Contains(query, "AND data->>($4::text) = $5 AND data->>($6::text) = $7") {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 7 || args[3] != "status" || args[4] != "pending" || args[5] != "transporter_id" || args[6] != "T1" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	var out []struct {
		ID string `json:"id"`
	}
	if err := decodeList([][]byte{[]byte(`{"id":"a"}`), []byte(`{"id":"b"}`)}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[1].ID != "b" {
		t.Errorf("unexpected result: %+v", out)
	}

	var empty []struct{}
	if err := decodeList(nil, &empty); err != nil || len(empty) != 0 {
		t.Errorf("expected empty list, got %v, %v", empty, err)
	}
}
