package gcp

import (
	"testing"

	"google.golang.org/api/option"
)

func TestClientOptions(t *testing.T) {
	cases := []struct {
		name     string
		jsonEnv  string
		fileEnv  string
		wantOpts int
	}{
		{name: "ambient", wantOpts: 1},
		{name: "inline json", jsonEnv: `{"type":"service_account"}`, wantOpts: 2},
		{name: "key file", fileEnv: "/secrets/key.json", wantOpts: 2},
		{name: "json in file var", fileEnv: `{"type":"service_account"}`, wantOpts: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(envCredentialsJSON, tc.jsonEnv)
			t.Setenv(envCredentialsFile, tc.fileEnv)
			got := clientOptions(option.WithEndpoint("us-documentai.googleapis.com:443"))
			if len(got) != tc.wantOpts {
				t.Fatalf("options: want=%d got=%d", tc.wantOpts, len(got))
			}
		})
	}
}
