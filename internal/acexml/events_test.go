package acexml

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, doc string) []Event {
	t.Helper()
	r := NewReader(strings.NewReader(doc), "test.xml")
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, ev)
	}
}

func TestReaderEventSequence(t *testing.T) {
	doc := `<?xml version="1.0"?>
<!DOCTYPE root [ <!ELEMENT root (a)> ]>
<root>
   <a key="v">hello <!-- note --> world</a>
   <b/>
</root>`

	events := collect(t, doc)

	type step struct {
		kind  EventKind
		name  string
		data  string
		depth int
	}
	want := []step{
		{Enter, "root", "", 1},
		{Enter, "a", "", 2},
		{Text, "", "hello  world", 2},
		{Exit, "a", "", 2},
		{Enter, "b", "", 2},
		{Exit, "b", "", 2},
		{Exit, "root", "", 1},
	}

	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		ev := events[i]
		if ev.Kind != w.kind || ev.Name != w.name || ev.Data != w.data || ev.Depth != w.depth {
			t.Errorf("Event %d: expected %+v, got kind=%s name=%q data=%q depth=%d",
				i, w, ev.Kind, ev.Name, ev.Data, ev.Depth)
		}
	}
	if events[1].Attrs["key"] != "v" {
		t.Errorf("Expected attribute key=v, got %v", events[1].Attrs)
	}
}

func TestReaderDropsWhitespaceText(t *testing.T) {
	events := collect(t, "<r>\n   <x>  \n </x>\n</r>")
	for _, ev := range events {
		if ev.Kind == Text {
			t.Errorf("Expected no text events, got %q", ev.Data)
		}
	}
}

func TestReaderMalformedCarriesLine(t *testing.T) {
	r := NewReader(strings.NewReader("<r>\n<a>\n</b>\n</r>"), "bad.xml")
	var err error
	for err == nil {
		_, err = r.Next()
	}

	var malformed *MalformedXMLError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedXMLError, got %v", err)
	}
	if malformed.Line < 2 {
		t.Errorf("Expected a line number, got %d", malformed.Line)
	}
	if malformed.Path != "bad.xml" {
		t.Errorf("Expected path bad.xml, got %s", malformed.Path)
	}
}
