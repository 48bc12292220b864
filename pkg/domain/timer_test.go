package domain

import (
	"encoding/json"
	"testing"
)

func TestTimerUnmarshal(t *testing.T) {
	var tm Timer
	if err := json.Unmarshal([]byte(`{"_id":"t1","name":"Intro","minutes":5}`), &tm); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tm.ID != "t1" || tm.Name != "Intro" {
		t.Errorf("got %+v", tm)
	}
	if tm.Hours != nil || tm.Minutes == nil || *tm.Minutes != 5 {
		t.Errorf("duration fields not parsed: %+v", tm)
	}
	if got := tm.DurationLabel(); got != "5:00" {
		t.Errorf("DurationLabel() = %q, want %q", got, "5:00")
	}

	var alt Timer
	if err := json.Unmarshal([]byte(`{"id":"t2","name":"Q&A","hours":1,"minutes":2,"seconds":3}`), &alt); err != nil {
		t.Fatalf("unmarshal id form: %v", err)
	}
	if alt.ID != "t2" || alt.DurationLabel() != "1:02:03" {
		t.Errorf("got %+v / %s", alt, alt.DurationLabel())
	}
}

func TestTimerUnmarshalRejectsMissingID(t *testing.T) {
	var tm Timer
	if err := json.Unmarshal([]byte(`{"name":"no id"}`), &tm); err == nil {
		t.Fatal("expected error for timer without id")
	}
	var list []Timer
	if err := json.Unmarshal([]byte(`[{"_id":"a"},{"name":"b"}]`), &list); err == nil {
		t.Fatal("expected error for list with an invalid record")
	}
}

func TestParsePlaybackStatus(t *testing.T) {
	tests := []struct {
		payload string
		want    PlaybackStatus
		wantErr bool
	}{
		{`{"running":true,"timer_id":"t1"}`, PlaybackStatus{Running: true, TimerID: "t1"}, false},
		{`{"running":false,"timer_id":null}`, PlaybackStatus{}, false},
		{`{}`, PlaybackStatus{}, false},
		{`"oops"`, PlaybackStatus{}, true},
		{`[1,2]`, PlaybackStatus{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePlaybackStatus([]byte(tt.payload))
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlaybackStatus(%s) err = %v, wantErr %v", tt.payload, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePlaybackStatus(%s) = %+v, want %+v", tt.payload, got, tt.want)
		}
	}
}

func TestCredentialsComplete(t *testing.T) {
	tests := []struct {
		c    Credentials
		want bool
	}{
		{Credentials{}, false},
		{Credentials{RoomID: "ABCD"}, false},
		{Credentials{APIKey: "k"}, false},
		{Credentials{RoomID: "ABCD", APIKey: "k"}, true},
	}
	for _, tt := range tests {
		if got := tt.c.Complete(); got != tt.want {
			t.Errorf("%+v.Complete() = %v, want %v", tt.c, got, tt.want)
		}
	}
	n := Credentials{RoomID: " abcd ", APIKey: " k1 "}.Normalize()
	if n.RoomID != "ABCD" || n.APIKey != "k1" {
		t.Errorf("Normalize() = %+v", n)
	}
}
