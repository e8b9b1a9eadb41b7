package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		client := NewClient("http://localhost:8000/")
		if client.baseURL != "http://localhost:8000" {
			t.Errorf("expected trimmed base URL, got %s", client.baseURL)
		}
	})

	t.Run("accepts custom HTTP client", func(t *testing.T) {
		custom := &http.Client{}
		client := NewClient("http://localhost:8000", WithHTTPClient(custom))
		if client.httpClient != custom {
			t.Error("expected custom HTTP client to be set")
		}
	})
}

func TestListPublicServices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookings/services/wellness-spa" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("public endpoint must not carry a bearer token")
		}
		json.NewEncoder(w).Encode([]Service{
			{ID: 42, Name: "Consultation", DurationMinutes: 60},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	services, err := client.ListPublicServices(context.Background(), "wellness-spa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 1 || services[0].Name != "Consultation" {
		t.Errorf("unexpected services %+v", services)
	}
}

func TestAvailability(t *testing.T) {
	t.Run("passes date and returns ordered slots", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/public/services/42/availability" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("date") != "2025-06-10" {
				t.Errorf("unexpected date %s", r.URL.Query().Get("date"))
			}
			json.NewEncoder(w).Encode([]string{"09:00", "09:30", "10:00"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		slots, err := client.Availability(context.Background(), 42, "2025-06-10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 3 || slots[1] != "09:30" {
			t.Errorf("unexpected slots %v", slots)
		}
	})

	t.Run("service not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Service not found"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Availability(context.Background(), 99, "2025-06-10")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if notFound.Message != "Service not found" {
			t.Errorf("unexpected message %q", notFound.Message)
		}
	})
}

func TestCreateBooking(t *testing.T) {
	t.Run("posts payload and decodes booking", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/bookings" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			var req BookingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.ServiceID != 42 || req.Email != "jane@x.com" {
				t.Errorf("unexpected payload %+v", req)
			}
			json.NewEncoder(w).Encode(Booking{ID: 7001, ServiceID: 42, Status: StatusPending})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		booking, err := client.CreateBooking(context.Background(), BookingRequest{
			ServiceID:     42,
			StartDateTime: "2025-06-10T09:30:00Z",
			Name:          "Jane Doe",
			Email:         "jane@x.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.ID != 7001 {
			t.Errorf("expected booking 7001, got %d", booking.ID)
		}
	})

	t.Run("slot taken surfaces server detail verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Slot not available"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.CreateBooking(context.Background(), BookingRequest{ServiceID: 42})
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
		if conflict.Message != "Slot not available" {
			t.Errorf("expected verbatim detail, got %q", conflict.Message)
		}
		if UserMessage(err) != "Slot not available" {
			t.Errorf("expected user message passthrough, got %q", UserMessage(err))
		}
	})
}

func TestBearerTokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode([]Booking{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.ListBookings(context.Background(), "tok-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListBookings(context.Background(), "expired")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPublicCancelBooking(t *testing.T) {
	t.Run("sends token as query parameter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/bookings/7001/cancel" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("token") != "opaque-token" {
				t.Errorf("unexpected token %q", r.URL.Query().Get("token"))
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		if err := client.PublicCancelBooking(context.Background(), 7001, "opaque-token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("already cancelled maps to sentinel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"status": "already_cancelled"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		err := client.PublicCancelBooking(context.Background(), 7001, "opaque-token")
		if !errors.Is(err, ErrAlreadyCancelled) {
			t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
		}
	})
}

func TestPublicBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			t.Errorf("missing token query param")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":           7001,
			"service_name": "Consultation",
			"service_id":   42,
			"start_time":   "2025-06-10T09:30:00Z",
			"status":       "confirmed",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	booking, err := client.PublicBooking(context.Background(), 7001, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ServiceID != 42 || booking.ServiceName != "Consultation" {
		t.Errorf("unexpected booking %+v", booking)
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "owner@x.com" {
			t.Errorf("unexpected username %q", r.PostForm.Get("username"))
		}
		json.NewEncoder(w).Encode(LoginResult{
			AccessToken:   "tok-abc",
			TokenType:     "bearer",
			Role:          "owner",
			WorkspaceSlug: "wellness-spa",
			Permissions:   "{}",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Login(context.Background(), "owner@x.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken != "tok-abc" || result.Role != "owner" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestNetworkErrorIsNotTyped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.ListBookings(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Error("transport failure must not look like a conflict")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("transport failure must not look like an auth failure")
	}
	if UserMessage(err) == "" {
		t.Error("expected a generic user message")
	}
}
