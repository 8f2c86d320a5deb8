package linelist

import "testing"

func TestNotificationQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewNotificationQueue(2)
	q.Notify(Notification{Text: "one"})
	q.Notify(Notification{Text: "two"})
	q.Notify(Notification{Text: "three"})

	var got []string
	for range 2 {
		got = append(got, (<-q.C()).Text)
	}
	if got[0] != "two" || got[1] != "three" {
		t.Fatalf("queue = %v, want [two three]", got)
	}
	select {
	case n := <-q.C():
		t.Fatalf("unexpected extra notification %q", n.Text)
	default:
	}
}

func TestNotifierFunc(t *testing.T) {
	var got Notification
	NotifierFunc(func(n Notification) { got = n }).Notify(Notification{Level: LevelSuccess, Text: "Saved"})
	if got.Text != "Saved" || got.Level.String() != "success" {
		t.Fatalf("NotifierFunc delivered %#v, want Saved/success", got)
	}
}
