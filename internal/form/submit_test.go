package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func reply(status int, success *bool, msg string) TransportFunc {
	return func(ctx context.Context, req Request) (Response, error) {
		return Response{Status: status, Success: success, Message: msg}, nil
	}
}

func TestControllerSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	entered := make(chan struct{})
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return Response{Status: http.StatusOK, Success: boolPtr(true)}, nil
	})
	c := NewController(tr, 0, DefaultMessages(), nil)

	done := make(chan Result, 1)
	go func() {
		res, _ := c.Submit(context.Background(), Request{Method: http.MethodPost, Path: "/api/lessons"})
		done <- res
	}()
	<-entered

	if c.State() != Pending {
		t.Fatalf("want pending, got %v", c.State())
	}
	if _, err := c.Submit(context.Background(), Request{Method: http.MethodPost, Path: "/api/lessons"}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("want ErrInFlight, got %v", err)
	}
	close(release)
	res := <-done

	if res.State != Succeeded {
		t.Fatalf("want success, got %v", res.State)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("want exactly one request, got %d", n)
	}
	if c.State() != Idle {
		t.Fatalf("controller should return to idle, got %v", c.State())
	}
}

func TestControllerTransitions(t *testing.T) {
	c := NewController(reply(http.StatusCreated, nil, ""), 0, DefaultMessages(), nil)
	var seen []State
	c.Observe(func(s State) { seen = append(seen, s) })

	res, err := c.Submit(context.Background(), Request{Method: http.MethodPost})
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != DefaultMessages().Success {
		t.Fatalf("missing message should fall back, got %q", res.Message)
	}
	want := []State{Pending, Succeeded, Idle}
	if len(seen) != len(want) {
		t.Fatalf("want %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("want %v, got %v", want, seen)
		}
	}
}

func TestControllerClassifiesFailures(t *testing.T) {
	msgs := DefaultMessages()
	cases := []struct {
		name    string
		tr      Transport
		kind    Kind
		message string
	}{
		{"explicit false", reply(http.StatusOK, boolPtr(false), "Kategori bulunamadı"), KindServer, "Kategori bulunamadı"},
		{"no message", reply(http.StatusInternalServerError, nil, ""), KindServer, msgs.Failure},
		{"conflict status", reply(http.StatusConflict, boolPtr(false), "Bu slug zaten kullanılıyor"), KindConflict, msgs.Conflict},
		{"duplicate marker", reply(http.StatusBadRequest, boolPtr(false), "E11000 duplicate key error"), KindConflict, msgs.Conflict},
		{"turkish duplicate marker", reply(http.StatusBadRequest, boolPtr(false), "Bu e-posta zaten kayıtlı"), KindConflict, msgs.Conflict},
		{"already verified is not a conflict", reply(http.StatusBadRequest, boolPtr(false), "E-posta zaten doğrulanmış"), KindServer, "E-posta zaten doğrulanmış"},
		{"unauthorized", reply(http.StatusUnauthorized, nil, ""), KindAuth, msgs.Auth},
		{"expired marker", reply(http.StatusInternalServerError, boolPtr(false), "jwt expired"), KindAuth, msgs.Auth},
		{"network", TransportFunc(func(context.Context, Request) (Response, error) {
			return Response{}, errors.New("dial tcp: connection refused")
		}), KindTransport, msgs.Transport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(tc.tr, 0, msgs, nil)
			res, err := c.Submit(context.Background(), Request{})
			if err != nil {
				t.Fatal(err)
			}
			if res.State != Failed || res.Err == nil {
				t.Fatalf("want failure, got %+v", res)
			}
			if res.Err.Kind != tc.kind || res.Message != tc.message {
				t.Fatalf("want %s %q, got %s %q", tc.kind, tc.message, res.Err.Kind, res.Message)
			}
		})
	}
}

func TestControllerTimeout(t *testing.T) {
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		<-ctx.Done()
		return Response{}, ctx.Err()
	})
	c := NewController(tr, 10*time.Millisecond, DefaultMessages(), nil)
	res, err := c.Submit(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Err == nil || res.Err.Kind != KindTransport || res.Message != DefaultMessages().Timeout {
		t.Fatalf("want timeout transport failure, got %+v", res)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatal("cause should wrap the deadline error")
	}
	if c.State() != Idle {
		t.Fatal("controller should be idle after timeout")
	}
}

func TestControllerParsesEntity(t *testing.T) {
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		return Response{Status: 200, Success: boolPtr(true), Message: "Ders oluşturuldu",
			Data: json.RawMessage(`{"id":"l1","title":"Kesirler"}`)}, nil
	})
	res, _ := NewController(tr, 0, DefaultMessages(), nil).Submit(context.Background(), Request{})
	if res.Entity == nil || res.Entity.String("id") != "l1" || res.Message != "Ders oluşturuldu" {
		t.Fatalf("unexpected result %+v", res)
	}
}
