package chem

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quimed/chemspace-api/logging"
)

func TestClientComputeDescriptors(t *testing.T) {
	logging.InitLogger("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/descriptors" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("smiles") == "" {
			t.Error("missing smiles query parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"mw": 180.16, "logp": 1.31}`)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	descriptors, err := client.ComputeDescriptors(context.Background(), "CC(=O)OC1=CC=CC=C1C(=O)O")
	if err != nil {
		t.Fatalf("ComputeDescriptors failed: %v", err)
	}

	if descriptors["mw"] != 180.16 {
		t.Errorf("mw = %v, want 180.16", descriptors["mw"])
	}
}

func TestClientInvalidStructure(t *testing.T) {
	logging.InitLogger("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	if _, err := client.Render2D(context.Background(), "not-a-smiles"); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("expected ErrInvalidStructure, got %v", err)
	}

	if _, err := client.ComputeDrugLikeness(context.Background(), "not-a-smiles"); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("expected ErrInvalidStructure, got %v", err)
	}
}

func TestClientUnconfigured(t *testing.T) {
	client := NewClient("")

	if _, err := client.MolecularFormula(context.Background(), "CCO"); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClientServerError(t *testing.T) {
	logging.InitLogger("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.ComputeDescriptors(context.Background(), "CCO")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, ErrInvalidStructure) {
		t.Error("500 must not be reported as an invalid structure")
	}
}

func TestClientMolecularFormula(t *testing.T) {
	logging.InitLogger("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"formula": "C9H8O4"}`)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	formula, err := client.MolecularFormula(context.Background(), "CC(=O)OC1=CC=CC=C1C(=O)O")
	if err != nil {
		t.Fatalf("MolecularFormula failed: %v", err)
	}
	if formula != "C9H8O4" {
		t.Errorf("formula = %q, want C9H8O4", formula)
	}
}

func TestSubscriptDigits(t *testing.T) {
	cases := map[string]string{
		"C9H8O4":  "C₉H₈O₄",
		"C21H30O2": "C₂₁H₃₀O₂",
		"CHO":     "CHO",
		"":        "",
	}

	for in, want := range cases {
		if got := SubscriptDigits(in); got != want {
			t.Errorf("SubscriptDigits(%q) = %q, want %q", in, got, want)
		}
	}
}
