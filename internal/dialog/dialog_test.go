package dialog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/form"
)

func TestConfirmAcceptRunsOnce(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	var c Confirm
	c.Open("Delete issue?", func(ctx context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Accept(context.Background()); err != nil {
			t.Error(err)
		}
	}()
	<-started

	if !c.IsBusy() {
		t.Fatal("dialog not busy while action in flight")
	}
	// A second accept while busy must not run the action again.
	if err := c.Accept(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Cancel while busy is ignored too.
	c.Cancel()
	if !c.IsOpen() {
		t.Fatal("cancel closed a busy dialog")
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("action ran %d times, want 1", got)
	}
	if c.IsOpen() {
		t.Fatal("dialog still open after success")
	}
}

func TestConfirmStaysOpenOnFailure(t *testing.T) {
	wantErr := errors.New("delete failed")
	var c Confirm
	c.Open("Delete product?", func(ctx context.Context) error { return wantErr })

	if err := c.Accept(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if !c.IsOpen() {
		t.Fatal("dialog closed after failed action")
	}
	if c.IsBusy() {
		t.Fatal("dialog stuck busy after failed action")
	}
	if !errors.Is(c.Err(), wantErr) {
		t.Fatalf("Err() = %v, want %v", c.Err(), wantErr)
	}

	// Retry succeeds and closes.
	c.mu.Lock()
	c.action = func(ctx context.Context) error { return nil }
	c.mu.Unlock()
	if err := c.Accept(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.IsOpen() {
		t.Fatal("dialog still open after retry succeeded")
	}
}

func TestConfirmAcceptClosed(t *testing.T) {
	var c Confirm
	if err := c.Accept(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
}

func TestConfirmCancel(t *testing.T) {
	var c Confirm
	c.Open("Sure?", func(ctx context.Context) error {
		t.Fatal("action ran after cancel")
		return nil
	})
	c.Cancel()
	if c.IsOpen() {
		t.Fatal("dialog open after cancel")
	}
	if err := c.Accept(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
}

func testFields() []descriptor.FieldDescriptor {
	return []descriptor.FieldDescriptor{
		{ID: "name", Label: "Name", Kind: descriptor.KindText, Required: true},
		{ID: "status", Label: "Status", Kind: descriptor.KindSelect, DefaultValue: "open"},
	}
}

func TestFormDialogRoutesByMode(t *testing.T) {
	var created, edited atomic.Int32
	d := NewFormDialog(testFields(),
		func(ctx context.Context, values map[string]any) error { created.Add(1); return nil },
		func(ctx context.Context, values map[string]any) error { edited.Add(1); return nil },
	)

	d.OpenCreate()
	if got := d.Form().Value("status"); got != "open" {
		t.Fatalf("create default status = %v, want open", got)
	}
	d.Form().SetValue("name", "Pump A")
	if err := d.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d.IsOpen() {
		t.Fatal("dialog open after successful create")
	}

	d.OpenEdit(map[string]any{"name": "Pump A", "status": "closed"})
	if got := d.Form().Value("status"); got != "closed" {
		t.Fatalf("edit status = %v, want closed", got)
	}
	if err := d.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if created.Load() != 1 || edited.Load() != 1 {
		t.Fatalf("created=%d edited=%d, want 1/1", created.Load(), edited.Load())
	}
}

func TestFormDialogStaysOpenOnValidationFailure(t *testing.T) {
	d := NewFormDialog(testFields(),
		func(ctx context.Context, values map[string]any) error {
			t.Fatal("callback ran despite validation failure")
			return nil
		},
		nil,
	)

	d.OpenCreate()
	err := d.Submit(context.Background())
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if !d.IsOpen() {
		t.Fatal("dialog closed despite validation failure")
	}
	if msg := d.Form().Errors()["name"]; msg == "" {
		t.Fatal("missing field error for name")
	}

	// Fixing the field and resubmitting closes the dialog.
	d.Form().SetValue("name", "Pump A")
	d2 := NewFormDialog(testFields(),
		func(ctx context.Context, values map[string]any) error { return nil }, nil)
	d2.OpenCreate()
	d2.Form().SetValue("name", "Pump A")
	if err := d2.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d2.IsOpen() {
		t.Fatal("dialog open after successful resubmit")
	}
}

func TestFormDialogStaysOpenOnPersistFailure(t *testing.T) {
	wantErr := errors.New("conflict")
	d := NewFormDialog(testFields(),
		func(ctx context.Context, values map[string]any) error { return wantErr }, nil)

	d.OpenCreate()
	d.Form().SetValue("name", "Pump A")
	if err := d.Submit(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if !d.IsOpen() {
		t.Fatal("dialog closed despite persist failure")
	}
	if got := d.Form().Value("name"); got != "Pump A" {
		t.Fatalf("form state lost: name = %v", got)
	}
}

func TestFormDialogSubmitClosed(t *testing.T) {
	d := NewFormDialog(testFields(), nil, nil)
	if err := d.Submit(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
}

func TestFormDialogSubmitRunsOnce(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	d := NewFormDialog(testFields(),
		func(ctx context.Context, values map[string]any) error {
			calls.Add(1)
			close(started)
			<-release
			return nil
		},
		nil,
	)
	d.OpenCreate()
	d.Form().SetValue("name", "Pump A")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.Submit(context.Background()); err != nil {
			t.Error(err)
		}
	}()
	<-started

	if !d.IsBusy() {
		t.Fatal("dialog not busy while callback in flight")
	}
	// A second submit while busy must not re-validate and persist again.
	if err := d.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Close while busy is ignored; the first submit still owns the form.
	d.Close()
	if !d.IsOpen() {
		t.Fatal("close dismissed a busy dialog")
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("callback ran %d times, want 1", got)
	}
	if d.IsOpen() {
		t.Fatal("dialog still open after successful submit")
	}
	if d.IsBusy() {
		t.Fatal("dialog still busy after submit settled")
	}
}

func TestConfirmTitleAndSeverity(t *testing.T) {
	var c Confirm
	c.OpenTitled("Delete product", "This cannot be undone.", SeverityDanger,
		func(ctx context.Context) error { return nil })

	if c.Title() != "Delete product" {
		t.Errorf("Title = %q", c.Title())
	}
	if c.Severity() != SeverityDanger {
		t.Errorf("Severity = %q, want danger", c.Severity())
	}

	if err := c.Accept(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Title() != "" || c.Severity() != Severity("") {
		t.Error("presentation metadata not cleared after accept")
	}

	// Plain Open defaults to a warning with no title.
	c.Open("Sure?", func(ctx context.Context) error { return nil })
	if c.Title() != "" || c.Severity() != SeverityWarning {
		t.Errorf("Open defaults: title=%q severity=%q", c.Title(), c.Severity())
	}
}

func TestBulkExecute(t *testing.T) {
	var ran []string
	var asked string
	prompt := PromptFunc(func(ctx context.Context, message string) (bool, error) {
		asked = message
		return true, nil
	})
	b := NewBulk(prompt, BulkAction{
		Name:    "delete",
		Confirm: "Delete %d issues?",
		Run: func(ctx context.Context, ids []string) error {
			ran = ids
			return nil
		},
	})

	if err := b.Execute(context.Background(), "delete", []string{"iss-1", "iss-2"}); err != nil {
		t.Fatal(err)
	}
	if asked != "Delete 2 issues?" {
		t.Fatalf("prompt = %q", asked)
	}
	if len(ran) != 2 {
		t.Fatalf("ran over %d ids, want 2", len(ran))
	}
}

func TestBulkDeclined(t *testing.T) {
	prompt := PromptFunc(func(ctx context.Context, message string) (bool, error) {
		return false, nil
	})
	b := NewBulk(prompt, BulkAction{
		Name:    "delete",
		Confirm: "Delete %d issues?",
		Run: func(ctx context.Context, ids []string) error {
			t.Fatal("action ran despite declined prompt")
			return nil
		},
	})
	if err := b.Execute(context.Background(), "delete", []string{"iss-1"}); !errors.Is(err, ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
}

func TestBulkEmptySelectionAndUnknownAction(t *testing.T) {
	prompt := PromptFunc(func(ctx context.Context, message string) (bool, error) {
		t.Fatal("prompted for empty selection")
		return false, nil
	})
	b := NewBulk(prompt, BulkAction{
		Name:    "close",
		Confirm: "Close %d issues?",
		Run: func(ctx context.Context, ids []string) error {
			t.Fatal("action ran for empty selection")
			return nil
		},
	})
	if err := b.Execute(context.Background(), "close", nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Execute(context.Background(), "archive", []string{"iss-1"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestConfirmReopenAfterBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var c Confirm
	c.Open("first", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Accept(context.Background())
	}()
	<-started

	// Opening while busy is ignored so the in-flight prompt is not replaced.
	c.Open("second", func(ctx context.Context) error { return nil })
	if got := c.Message(); got != "first" {
		t.Fatalf("message = %q, want first", got)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("accept did not finish")
	}
}
