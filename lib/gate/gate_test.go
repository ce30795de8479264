// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tedxbedayia/usher/lib/admission"
	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/history"
	"github.com/tedxbedayia/usher/lib/kvstore"
	"github.com/tedxbedayia/usher/lib/session"
	"github.com/tedxbedayia/usher/lib/ticketref"
)

const testUUID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type fakeCredentials struct {
	credentials session.Credentials
	err         error
}

func (f *fakeCredentials) Credentials(context.Context) (session.Credentials, error) {
	return f.credentials, f.err
}

type admitCall struct {
	id, appKey, deviceUID string
}

type fakeAdmitter struct {
	mu        sync.Mutex
	admits    []admitCall
	sales     []admission.OnDoorTicket
	response  admission.Response
	info      *admission.OnDoorInfo
	infoError error

	// block, when set, is received from before Admit returns.
	block chan struct{}
}

func (f *fakeAdmitter) Admit(_ context.Context, id, appKey, deviceUID string) admission.Response {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admits = append(f.admits, admitCall{id, appKey, deviceUID})
	return f.response
}

func (f *fakeAdmitter) SellOnDoor(_ context.Context, ticket admission.OnDoorTicket, _, _ string) admission.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales = append(f.sales, ticket)
	return f.response
}

func (f *fakeAdmitter) OnDoorInfo(context.Context) (*admission.OnDoorInfo, error) {
	return f.info, f.infoError
}

func (f *fakeAdmitter) admitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admits)
}

type testGate struct {
	gate    *Gate
	client  *fakeAdmitter
	history *history.Log
	store   *kvstore.Memory
}

func newTestGate(t *testing.T, response admission.Response) *testGate {
	t.Helper()
	store := kvstore.NewMemory()
	log, err := history.New(history.Config{
		Store:    store,
		Clock:    clock.Fake(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	client := &fakeAdmitter{response: response}
	gate, err := New(Config{
		Session: &fakeCredentials{credentials: session.Credentials{AppKey: "key-1", DeviceUID: "ABC123"}},
		Client:  client,
		History: log,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testGate{gate: gate, client: client, history: log, store: store}
}

func admitted(name string) *admission.Success {
	return &admission.Success{Applicant: admission.Applicant{FullName: name}}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Client: &fakeAdmitter{}}); err == nil {
		t.Error("New without Session succeeded")
	}
	if _, err := New(Config{Session: &fakeCredentials{}}); err == nil {
		t.Error("New without Client succeeded")
	}
}

func TestScanAdmitsAndRecords(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	ctx := context.Background()

	outcome, err := env.gate.Scan(ctx, "https://www.tedxbedayia.com/ticket/"+testUUID)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if outcome.UUID != testUUID {
		t.Errorf("UUID = %q, want %q", outcome.UUID, testUUID)
	}
	if _, ok := outcome.Response.(*admission.Success); !ok {
		t.Fatalf("Response = %T, want *admission.Success", outcome.Response)
	}

	call := env.client.admits[0]
	if call.id != testUUID || call.appKey != "key-1" || call.deviceUID != "ABC123" {
		t.Errorf("Admit called with %+v", call)
	}

	records := env.history.List(ctx)
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	record := records[0]
	if record.UUID != testUUID || record.Name != "Jane Doe" || !record.Success || record.Error != "" {
		t.Errorf("record = %+v", record)
	}
}

func TestScanRecordsRejection(t *testing.T) {
	env := newTestGate(t, &admission.Failure{Message: "Ticket already admitted"})
	ctx := context.Background()

	outcome, err := env.gate.ScanManual(ctx, testUUID)
	if err != nil {
		t.Fatalf("ScanManual: %v", err)
	}
	failure, ok := outcome.Response.(*admission.Failure)
	if !ok {
		t.Fatalf("Response = %T, want *admission.Failure", outcome.Response)
	}
	if failure.Message != "Ticket already admitted" {
		t.Errorf("Message = %q", failure.Message)
	}

	record := env.history.List(ctx)[0]
	if record.Success {
		t.Error("record.Success = true for a rejection")
	}
	if record.Name != UnknownName {
		t.Errorf("Name = %q, want %q", record.Name, UnknownName)
	}
	if record.Error != "Ticket already admitted" {
		t.Errorf("Error = %q, want %q", record.Error, "Ticket already admitted")
	}
}

func TestScanSuccessWithoutNameRecordsUnknown(t *testing.T) {
	env := newTestGate(t, admitted(""))
	if _, err := env.gate.ScanManual(context.Background(), testUUID); err != nil {
		t.Fatalf("ScanManual: %v", err)
	}
	if name := env.history.List(context.Background())[0].Name; name != UnknownName {
		t.Errorf("Name = %q, want %q", name, UnknownName)
	}
}

func TestScanSuppressesRepeatedPayload(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	ctx := context.Background()

	if _, err := env.gate.Scan(ctx, testUUID); err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	if _, err := env.gate.Scan(ctx, testUUID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Scan error = %v, want ErrDuplicate", err)
	}
	if count := env.client.admitCount(); count != 1 {
		t.Errorf("Admit called %d times, want 1", count)
	}

	// Typed entry bypasses the guard.
	if _, err := env.gate.ScanManual(ctx, testUUID); err != nil {
		t.Fatalf("ScanManual: %v", err)
	}

	env.gate.ResetDuplicateGuard()
	if _, err := env.gate.Scan(ctx, testUUID); err != nil {
		t.Fatalf("Scan after reset: %v", err)
	}
	if count := env.client.admitCount(); count != 3 {
		t.Errorf("Admit called %d times, want 3", count)
	}
}

func TestScanDifferentPayloadReplacesGuard(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	ctx := context.Background()
	other := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	for _, payload := range []string{testUUID, other, testUUID} {
		if _, err := env.gate.Scan(ctx, payload); err != nil {
			t.Fatalf("Scan(%q): %v", payload, err)
		}
	}
	if count := env.client.admitCount(); count != 3 {
		t.Errorf("Admit called %d times, want 3", count)
	}
}

func TestScanSuppressesSameTicketInAnotherForm(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	ctx := context.Background()

	if _, err := env.gate.Scan(ctx, testUUID); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, payload := range []string{
		"https://www.tedxbedayia.com/ticket/" + testUUID,
		testUUID + "\r",
		strings.ToUpper(testUUID),
	} {
		if _, err := env.gate.Scan(ctx, payload); !errors.Is(err, ErrDuplicate) {
			t.Errorf("Scan(%q) error = %v, want ErrDuplicate", payload, err)
		}
	}
	if count := env.client.admitCount(); count != 1 {
		t.Errorf("Admit called %d times, want 1", count)
	}
}

func TestScanEmptyPayload(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	if _, err := env.gate.Scan(context.Background(), "   "); !errors.Is(err, ticketref.ErrEmpty) {
		t.Fatalf("error = %v, want ticketref.ErrEmpty", err)
	}
	if env.client.admitCount() != 0 {
		t.Error("Admit called for an empty payload")
	}
}

func TestScanWithoutAppKey(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	env.gate.session = &fakeCredentials{err: session.ErrNoAppKey}
	ctx := context.Background()

	if _, err := env.gate.Scan(ctx, testUUID); !errors.Is(err, session.ErrNoAppKey) {
		t.Fatalf("error = %v, want session.ErrNoAppKey", err)
	}
	if env.client.admitCount() != 0 {
		t.Error("Admit called without credentials")
	}
	if records := env.history.List(ctx); len(records) != 0 {
		t.Errorf("history has %d records, want 0", len(records))
	}

	// A failed attempt does not arm the duplicate guard.
	env.gate.session = &fakeCredentials{credentials: session.Credentials{AppKey: "key-1", DeviceUID: "ABC123"}}
	if _, err := env.gate.Scan(ctx, testUUID); err != nil {
		t.Fatalf("Scan after configuring key: %v", err)
	}
}

func TestScanHistoryFailureDoesNotFailScan(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	env.store.FailSet(errors.New("disk full"))

	outcome, err := env.gate.ScanManual(context.Background(), testUUID)
	if err != nil {
		t.Fatalf("ScanManual: %v", err)
	}
	if _, ok := outcome.Response.(*admission.Success); !ok {
		t.Errorf("Response = %T, want *admission.Success", outcome.Response)
	}
}

func TestScanBusy(t *testing.T) {
	env := newTestGate(t, admitted("Jane Doe"))
	env.client.block = make(chan struct{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := env.gate.ScanManual(ctx, testUUID)
		done <- err
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !env.gate.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("gate never became busy")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := env.gate.ScanManual(ctx, testUUID); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent ScanManual error = %v, want ErrBusy", err)
	}
	if _, err := env.gate.Sell(ctx, SaleForm{
		Name: "A", Email: "a@example.com", Phone: "1", PaymentMethod: "cash",
	}); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Sell error = %v, want ErrBusy", err)
	}

	close(env.client.block)
	if err := <-done; err != nil {
		t.Fatalf("first ScanManual: %v", err)
	}
	if env.gate.Busy() {
		t.Error("gate still busy after the scan finished")
	}
}
