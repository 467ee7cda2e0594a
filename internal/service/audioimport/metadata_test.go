package audioimport

import "testing"

func TestNormalizeMetadata(t *testing.T) {
	tests := []struct {
		name          string
		raw           map[string]string
		wantCanonical map[string]string
		wantExtras    map[string]string
	}{
		{
			name:          "agent id spelling variants",
			raw:           map[string]string{"Agent ID": "AG-1"},
			wantCanonical: map[string]string{MetaAgentID: "AG-1"},
			wantExtras:    map[string]string{},
		},
		{
			name:          "underscore and case variants",
			raw:           map[string]string{"AGENT_ID": "AG-2", "partner name": "Acme"},
			wantCanonical: map[string]string{MetaAgentID: "AG-2", MetaPartnerName: "Acme"},
			wantExtras:    map[string]string{},
		},
		{
			name:          "employee id alias",
			raw:           map[string]string{"EmpID": "E-9"},
			wantCanonical: map[string]string{MetaAgentID: "E-9"},
			wantExtras:    map[string]string{},
		},
		{
			name:          "unknown keys preserved as extras",
			raw:           map[string]string{"Shift": "night", "Team Lead": "R. Gupta"},
			wantCanonical: map[string]string{},
			wantExtras:    map[string]string{"Shift": "night", "Team Lead": "R. Gupta"},
		},
		{
			name:          "empty values dropped",
			raw:           map[string]string{"Agent ID": "  ", "Campaign": "sales"},
			wantCanonical: map[string]string{MetaCampaign: "sales"},
			wantExtras:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical, extras := NormalizeMetadata(tt.raw)
			if len(canonical) != len(tt.wantCanonical) {
				t.Errorf("canonical = %v, want %v", canonical, tt.wantCanonical)
			}
			for k, v := range tt.wantCanonical {
				if canonical[k] != v {
					t.Errorf("canonical[%s] = %q, want %q", k, canonical[k], v)
				}
			}
			if len(extras) != len(tt.wantExtras) {
				t.Errorf("extras = %v, want %v", extras, tt.wantExtras)
			}
			for k, v := range tt.wantExtras {
				if extras[k] != v {
					t.Errorf("extras[%s] = %q, want %q", k, extras[k], v)
				}
			}
		})
	}
}

func TestAgentIdentifier(t *testing.T) {
	if got := AgentIdentifier(nil); got != "" {
		t.Errorf("AgentIdentifier(nil) = %q, want empty", got)
	}
	if got := AgentIdentifier(map[string]string{MetaAgentID: "AG-3"}); got != "AG-3" {
		t.Errorf("AgentIdentifier = %q, want AG-3", got)
	}
}
