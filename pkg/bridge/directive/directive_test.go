package directive

import "testing"

func TestSplit_TrailingBlock(t *testing.T) {
	spoken, block := Split(`Great, I have everything I need. {"action":"RES_DONE"}`)
	if spoken != "Great, I have everything I need." {
		t.Fatalf("spoken=%q", spoken)
	}
	if block != `{"action":"RES_DONE"}` {
		t.Fatalf("block=%q", block)
	}
}

func TestSplit_NoBrace(t *testing.T) {
	spoken, block := Split("How many bedrooms does the home have?")
	if spoken != "How many bedrooms does the home have?" {
		t.Fatalf("spoken=%q", spoken)
	}
	if block != "" {
		t.Fatalf("block=%q", block)
	}
}

func TestSplit_BraceWithoutTrailingClose(t *testing.T) {
	// A '{' mid-reply with no '}' at the end is plain speech.
	spoken, block := Split("Press { on your keypad. Anything else?")
	if block != "" {
		t.Fatalf("block=%q", block)
	}
	if spoken != "Press { on your keypad. Anything else?" {
		t.Fatalf("spoken=%q", spoken)
	}
}

func TestSplit_BlockOnly(t *testing.T) {
	spoken, block := Split(`{"action":"HANDOFF"}`)
	if spoken != "" {
		t.Fatalf("spoken=%q", spoken)
	}
	if block != `{"action":"HANDOFF"}` {
		t.Fatalf("block=%q", block)
	}
}

func TestParse_StrictResidential(t *testing.T) {
	d := Parse(`{"action":"RES_DONE"}`)
	if _, ok := d.(ResidentialComplete); !ok {
		t.Fatalf("directive = %#v, want ResidentialComplete", d)
	}
}

func TestParse_CommercialSummary(t *testing.T) {
	d := Parse(`{"action":"COMM_ALERT","summary":"ACME Inc, 5000 sqft, weekly"}`)
	alert, ok := d.(CommercialAlert)
	if !ok {
		t.Fatalf("directive = %#v, want CommercialAlert", d)
	}
	if alert.Summary != "ACME Inc, 5000 sqft, weekly" {
		t.Fatalf("summary=%q", alert.Summary)
	}
}

func TestParse_CommercialMissingSummary(t *testing.T) {
	d := Parse(`{"action":"COMM_ALERT"}`)
	alert, ok := d.(CommercialAlert)
	if !ok {
		t.Fatalf("directive = %#v, want CommercialAlert", d)
	}
	if alert.Summary != NoSummary {
		t.Fatalf("summary=%q", alert.Summary)
	}
}

func TestParse_RepairedBareKeysAndSingleQuotes(t *testing.T) {
	d := Parse(`{action:'HANDOFF'}`)
	if _, ok := d.(Handoff); !ok {
		t.Fatalf("directive = %#v, want Handoff", d)
	}
}

func TestParse_RepairedCommercial(t *testing.T) {
	d := Parse(`{action:'COMM_ALERT', summary:'ACME Inc, 5000 sqft, weekly'}`)
	alert, ok := d.(CommercialAlert)
	if !ok {
		t.Fatalf("directive = %#v, want CommercialAlert", d)
	}
	if alert.Summary != "ACME Inc, 5000 sqft, weekly" {
		t.Fatalf("summary=%q", alert.Summary)
	}
}

func TestParse_CaseInsensitiveAction(t *testing.T) {
	d := Parse(`{"action":"res_done"}`)
	if _, ok := d.(ResidentialComplete); !ok {
		t.Fatalf("directive = %#v, want ResidentialComplete", d)
	}
}

func TestParse_UnknownAction(t *testing.T) {
	if d := Parse(`{"action":"ESCALATE_TO_CEO"}`); d != nil {
		t.Fatalf("directive = %#v, want nil", d)
	}
}

func TestParse_BrokenBeyondRepair(t *testing.T) {
	if d := Parse(`{action:HANDOFF`); d != nil {
		t.Fatalf("directive = %#v, want nil", d)
	}
}

func TestParse_Empty(t *testing.T) {
	if d := Parse(""); d != nil {
		t.Fatalf("directive = %#v, want nil", d)
	}
}

func TestFromReply_BrokenTailStillStripsSpeech(t *testing.T) {
	spoken, d := FromReply(`Thanks, someone will reach out. {action: RES_DONE,,}`)
	if spoken != "Thanks, someone will reach out." {
		t.Fatalf("spoken=%q", spoken)
	}
	if d != nil {
		t.Fatalf("directive = %#v, want nil", d)
	}
}

func TestRepair(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{action:'HANDOFF'}`, `{"action":"HANDOFF"}`},
		{`{action: 'RES_DONE'}`, `{"action": "RES_DONE"}`},
		{`{"action":"COMM_ALERT"}`, `{"action":"COMM_ALERT"}`},
		{`{a:1, b_2:true}`, `{"a":1, "b_2":true}`},
	}
	for _, tc := range cases {
		if got := Repair(tc.in); got != tc.want {
			t.Fatalf("Repair(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
