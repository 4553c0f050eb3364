package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const fullForm = `<html><body><form>
<input name="Primary_Artist"><input name="Title"><input name="UPC">
<input name="ISRC"><input name="Release_Date"><input name="Label">
<input name="Territory"><textarea name="Description"></textarea>
<button type="submit">Submit</button>
</form></body></html>`

func TestCheckFullForm(t *testing.T) {
	statuses, err := Check([]byte(fullForm))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if len(statuses) != 9 {
		t.Fatalf("Check() returned %d statuses, want 9 (8 fields + submit)", len(statuses))
	}
	for _, s := range statuses {
		if !s.Found {
			t.Errorf("control %s (%s) not found on a complete form", s.Field, s.Selector)
		}
	}
	if missing := Missing(statuses); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
}

func TestCheckDriftedForm(t *testing.T) {
	// Portal renamed the ISRC control and dropped the description box.
	page := `<html><body><form>
<input name="Primary_Artist"><input name="Title"><input name="UPC">
<input name="Isrc_Code"><input name="Release_Date"><input name="Label">
<input name="Territory">
<button type="submit">Go</button>
</form></body></html>`

	statuses, err := Check([]byte(page))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	missing := Missing(statuses)
	if len(missing) != 2 {
		t.Fatalf("Missing() = %v, want isrc and description", missing)
	}
	want := map[string]bool{"isrc": true, "description": true}
	for _, m := range missing {
		if !want[m.Field] {
			t.Errorf("unexpected missing control %s", m.Field)
		}
	}
}

func TestCheckNoSubmit(t *testing.T) {
	statuses, err := Check([]byte(`<html><body><form><input name="Title"></form></body></html>`))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	var submit *ControlStatus
	for i := range statuses {
		if statuses[i].Field == "submit" {
			submit = &statuses[i]
		}
	}
	if submit == nil {
		t.Fatal("no submit status reported")
	}
	if submit.Found {
		t.Error("submit control reported found on a form without one")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fullForm))
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(body) == 0 {
		t.Fatal("Fetch() returned empty body")
	}

	statuses, err := Check(body)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(Missing(statuses)) != 0 {
		t.Errorf("fetched form missing controls: %v", Missing(statuses))
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Error("Fetch() with 503 response: expected error, got nil")
	}
}
