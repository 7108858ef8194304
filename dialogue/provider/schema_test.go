package provider

import (
	"encoding/json"
	"testing"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
)

func TestGenerateSchema_IsStrict(t *testing.T) {
	t.Parallel()

	s := GenerateSchema[dialogue.ShareGPTRecord]()
	if s["additionalProperties"] != false {
		t.Fatalf("additionalProperties=%v, want false", s["additionalProperties"])
	}
	req, ok := s["required"].([]string)
	if !ok || len(req) != 2 {
		t.Fatalf("required=%v, want 2 fields", s["required"])
	}
	props := s["properties"].(map[string]interface{})
	conv := props["conversations"].(map[string]interface{})
	items := conv["items"].(map[string]interface{})
	if items["additionalProperties"] != false {
		t.Fatalf("items additionalProperties=%v, want false", items["additionalProperties"])
	}
}

func TestValidator_AcceptsAndRejects(t *testing.T) {
	t.Parallel()

	v, err := NewValidator(GenerateSchema[dialogue.ShareGPTRecord]())
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	good, _ := json.Marshal(dialogue.ShareGPTRecord{
		ID: "jack_0",
		Conversations: []dialogue.ShareGPTTurn{
			{From: "human", Value: "You're a pirate."},
			{From: "assistant", Value: "Captain. Captain Jack Sparrow."},
		},
	})
	if err := v.ValidateJSON(good); err != nil {
		t.Fatalf("ValidateJSON(good): %v", err)
	}

	cases := map[string]string{
		"bad role":    `{"id":"jack_1","conversations":[{"from":"gpt","value":"a"},{"from":"assistant","value":"b"}]}`,
		"one turn":    `{"id":"jack_2","conversations":[{"from":"human","value":"a"}]}`,
		"empty value": `{"id":"jack_3","conversations":[{"from":"human","value":""},{"from":"assistant","value":"b"}]}`,
		"extra field": `{"id":"jack_4","conversations":[],"source":"x"}`,
		"missing id":  `{"conversations":[{"from":"human","value":"a"},{"from":"assistant","value":"b"}]}`,
		"not json":    `{`,
	}
	for name, doc := range cases {
		if err := v.ValidateJSON([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
