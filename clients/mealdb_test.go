package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newMealDBServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch r.URL.Path {
		case "/lookup.php":
			if q.Get("i") == "52771" {
				w.Write([]byte(`{"meals":[{"idMeal":"52771","strMeal":"Spicy Arrabiata Penne","strMealThumb":"t.jpg","strCategory":"Pasta"}]}`))
				return
			}
			w.Write([]byte(`{"meals":null}`))
		case "/search.php":
			w.Write([]byte(`{"meals":[{"idMeal":"1","strMeal":"` + q.Get("s") + `"}]}`))
		case "/filter.php":
			w.Write([]byte(`{"meals":[{"idMeal":"2","strMeal":"Fish pie","strMealThumb":"f.jpg"},{"idMeal":"3","strMeal":"Kedgeree","strMealThumb":"k.jpg"}]}`))
		case "/list.php":
			w.Write([]byte(`{"meals":[{"strCategory":"Beef"},{"strCategory":"Seafood"}]}`))
		case "/images/penne.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("PNGDATA"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestMealDBClient(t *testing.T) {
	srv := newMealDBServer(t)
	defer srv.Close()
	c := NewMealDBClient(srv.URL)
	ctx := context.Background()

	resp, err := c.Lookup(ctx, "52771")
	if err != nil || len(resp.Meals) != 1 || resp.Meals[0].Name != "Spicy Arrabiata Penne" {
		t.Fatalf("Lookup = %+v, %v", resp, err)
	}

	resp, err = c.Lookup(ctx, "0")
	if err != nil || resp.Meals != nil {
		t.Errorf("Lookup(unknown) = %+v, %v; want nil meals", resp, err)
	}

	resp, err = c.Search(ctx, "curry")
	if err != nil || resp.Meals[0].Name != "curry" {
		t.Errorf("Search = %+v, %v", resp, err)
	}

	resp, err = c.FilterByCategory(ctx, "Seafood")
	if err != nil || len(resp.Meals) != 2 {
		t.Errorf("FilterByCategory = %+v, %v", resp, err)
	}

	cats, err := c.Categories(ctx)
	if err != nil || len(cats) != 2 || cats[1] != "Seafood" {
		t.Errorf("Categories = %v, %v", cats, err)
	}

	img, err := c.FetchImage(ctx, srv.URL+"/images/penne.png")
	if err != nil || string(img) != "PNGDATA" {
		t.Errorf("FetchImage = %q, %v", img, err)
	}
	if _, err := c.FetchImage(ctx, srv.URL+"/images/missing.png"); err == nil {
		t.Error("expected an error for a missing image")
	}
}

func TestMealDBClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search.php" {
			w.Write([]byte(`<html>maintenance</html>`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := NewMealDBClient(srv.URL)

	if _, err := c.Lookup(context.Background(), "1"); err == nil {
		t.Error("expected an error for status 502")
	}
	if _, err := c.Search(context.Background(), ""); err == nil {
		t.Error("expected a decode error")
	}
}
