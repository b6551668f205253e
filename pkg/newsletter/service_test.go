package newsletter

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RxRakari/main-portfolio-sub001/internal/testutil"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

func newService(subs *testutil.FakeSubscriberStore, sender *testutil.FakeSender) *Service {
	return New(subs, sender, "https://example.com", zerolog.Nop())
}

func activeSubscriber(email, token string) store.Subscriber {
	return store.Subscriber{Email: email, Active: true, UnsubscribeToken: token}
}

func TestSubscribe_New(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore()
	svc := newService(subs, testutil.NewFakeSender())

	outcome, sub, err := svc.Subscribe(context.Background(), "Reader@Example.COM", "Reader")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if outcome != OutcomeSubscribed {
		t.Errorf("outcome = %s, want %s", outcome, OutcomeSubscribed)
	}
	if sub.Email != "reader@example.com" {
		t.Errorf("email not lowercased: %s", sub.Email)
	}
	if !sub.Active {
		t.Error("new subscriber must be active")
	}
	if sub.UnsubscribeToken == "" {
		t.Error("new subscriber must get an unsubscribe token")
	}
}

func TestSubscribe_AlreadySubscribed(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(activeSubscriber("reader@example.com", "tok-1"))
	svc := newService(subs, testutil.NewFakeSender())

	outcome, sub, err := svc.Subscribe(context.Background(), "reader@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if outcome != OutcomeAlreadySubscribed {
		t.Errorf("outcome = %s, want %s", outcome, OutcomeAlreadySubscribed)
	}
	if sub.UnsubscribeToken != "tok-1" {
		t.Error("existing token must be kept")
	}
}

func TestSubscribe_Reactivation(t *testing.T) {
	inactive := store.Subscriber{Email: "back@example.com", Active: false, UnsubscribeToken: "tok-2"}
	subs := testutil.NewFakeSubscriberStore(inactive)
	svc := newService(subs, testutil.NewFakeSender())

	outcome, sub, err := svc.Subscribe(context.Background(), "back@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if outcome != OutcomeReactivated {
		t.Errorf("outcome = %s, want %s", outcome, OutcomeReactivated)
	}
	if !sub.Active {
		t.Error("reactivated subscriber must be active")
	}
	if sub.UnsubscribeToken != "tok-2" {
		t.Error("token must never be reissued on reactivation")
	}

	stored, ok := subs.Get(sub.ID)
	if !ok || !stored.Active {
		t.Error("reactivation must be persisted")
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	svc := newService(testutil.NewFakeSubscriberStore(), testutil.NewFakeSender())

	for _, email := range []string{"", "no-at-sign", "@nouser", "trailing@", "spa ce@example.com"} {
		if _, _, err := svc.Subscribe(context.Background(), email, ""); err != ErrInvalidEmail {
			t.Errorf("Subscribe(%q) err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	sub := activeSubscriber("reader@example.com", "tok-3")
	subs := testutil.NewFakeSubscriberStore(sub)
	svc := newService(subs, testutil.NewFakeSender())

	if err := svc.Unsubscribe(context.Background(), "tok-3"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	all, _ := subs.All(context.Background())
	if len(all) != 1 {
		t.Fatal("unsubscribe must deactivate, never delete")
	}
	if all[0].Active {
		t.Error("subscriber still active after unsubscribe")
	}

	// Unknown token is a client error.
	if err := svc.Unsubscribe(context.Background(), "bogus"); err != ErrUnknownToken {
		t.Errorf("unknown token err = %v, want ErrUnknownToken", err)
	}

	// A second unsubscribe with the same token is a no-op.
	if err := svc.Unsubscribe(context.Background(), "tok-3"); err != nil {
		t.Errorf("repeat unsubscribe err = %v, want nil", err)
	}
}

func TestNotifyContent_SendsPerActiveSubscriber(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(
		activeSubscriber("a@example.com", "tok-a"),
		activeSubscriber("b@example.com", "tok-b"),
		store.Subscriber{Email: "gone@example.com", Active: false, UnsubscribeToken: "tok-c"},
	)
	sender := testutil.NewFakeSender()
	svc := newService(subs, sender)

	err := svc.NotifyContent(context.Background(), KindBlog, Content{
		Title:  "Shipping a Redis cache",
		Ref:    "shipping-a-redis-cache",
		Teaser: "Notes from the trenches.",
	})
	if err != nil {
		t.Fatalf("NotifyContent failed: %v", err)
	}

	if len(sender.Sent) != 2 {
		t.Fatalf("sent = %d, want 2 (inactive subscriber must be skipped)", len(sender.Sent))
	}

	first := sender.Sent[0]
	if !strings.Contains(first.Subject, "Shipping a Redis cache") {
		t.Errorf("subject %q missing title", first.Subject)
	}
	if !strings.Contains(first.Body, "/blog/shipping-a-redis-cache") {
		t.Errorf("body missing content link: %s", first.Body)
	}
	if !strings.Contains(first.Body, "/api/newsletter/unsubscribe/tok-a") {
		t.Error("body missing the recipient's personal unsubscribe link")
	}
	if strings.Contains(first.Body, "tok-b") {
		t.Error("body leaked another subscriber's token")
	}
}

func TestNotifyContent_NoSubscribers(t *testing.T) {
	sender := testutil.NewFakeSender()
	svc := newService(testutil.NewFakeSubscriberStore(), sender)

	if err := svc.NotifyContent(context.Background(), KindProject, Content{Title: "x", Ref: "x"}); err != nil {
		t.Fatalf("NotifyContent with no subscribers must not error, got %v", err)
	}
	if sender.Attempts() != 0 {
		t.Error("no sends expected with no subscribers")
	}
}

func TestNotifyContent_FailureIsolated(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(
		activeSubscriber("a@example.com", "tok-a"),
		activeSubscriber("b@example.com", "tok-b"),
		activeSubscriber("c@example.com", "tok-c"),
	)
	sender := testutil.NewFakeSender()
	sender.FailTo["b@example.com"] = true
	svc := newService(subs, sender)

	err := svc.NotifyContent(context.Background(), KindGallery, Content{Title: "Dunes", Ref: "dunes"})
	if err != nil {
		t.Fatalf("per-recipient failure must not fail the run: %v", err)
	}

	if sender.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3 (failure must not stop iteration)", sender.Attempts())
	}
	if len(sender.Sent) != 2 {
		t.Errorf("sent = %d, want 2", len(sender.Sent))
	}
}

func TestNotifyContent_SubscriberResolutionFailure(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(activeSubscriber("a@example.com", "tok-a"))
	subs.FailList = true
	svc := newService(subs, testutil.NewFakeSender())

	if err := svc.NotifyContent(context.Background(), KindBlog, Content{Title: "x", Ref: "x"}); err == nil {
		t.Error("subscriber resolution failure must be returned")
	}
}

func TestBroadcast_AggregatesResult(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(
		activeSubscriber("a@example.com", "tok-a"),
		activeSubscriber("b@example.com", "tok-b"),
		activeSubscriber("c@example.com", "tok-c"),
	)
	sender := testutil.NewFakeSender()
	sender.FailAttempts[2] = true
	svc := newService(subs, sender)

	result, err := svc.Broadcast(context.Background(), "Site news", "<p>Hello there.</p>")
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want {Succeeded:2 Failed:1}", result)
	}
	if sender.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3 (3rd send must still be attempted)", sender.Attempts())
	}
}

func TestBroadcast_AppendsUnsubscribeFooter(t *testing.T) {
	subs := testutil.NewFakeSubscriberStore(activeSubscriber("a@example.com", "tok-a"))
	sender := testutil.NewFakeSender()
	svc := newService(subs, sender)

	if _, err := svc.Broadcast(context.Background(), "Hello", "<p>Body.</p>"); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	body := sender.Sent[0].Body
	if !strings.HasPrefix(body, "<p>Body.</p>") {
		t.Errorf("admin body must be preserved verbatim, got %q", body)
	}
	if !strings.Contains(body, "/api/newsletter/unsubscribe/tok-a") {
		t.Error("footer must carry the recipient's unsubscribe link")
	}
}

func TestBroadcast_RequiresSubject(t *testing.T) {
	svc := newService(testutil.NewFakeSubscriberStore(), testutil.NewFakeSender())

	if _, err := svc.Broadcast(context.Background(), "   ", "<p>x</p>"); err == nil {
		t.Error("empty subject must be rejected")
	}
}
