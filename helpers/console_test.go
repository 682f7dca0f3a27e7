package helpers

import "testing"

func TestBuildConsoleUrl(t *testing.T) {
	type args struct {
		host        string
		region      string
		sessionID   string
		executionID string
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "Calculation",
			args: args{
				host:        DefaultConsoleHost,
				region:      "us-east-1",
				sessionID:   "s-1",
				executionID: "abc-123",
			},
			want:    "https://us-east-1.console.aws.amazon.com/athena/home?region=us-east-1#/notebook-explorer/sessions/s-1/calculations/abc-123",
			wantErr: false,
		},
		{
			name: "Session Only",
			args: args{
				host:      DefaultConsoleHost,
				region:    "eu-west-1",
				sessionID: "s-1",
			},
			want:    "https://eu-west-1.console.aws.amazon.com/athena/home?region=eu-west-1#/notebook-explorer/sessions/s-1",
			wantErr: false,
		},
		{
			name: "Localhost",
			args: args{
				host:        "localhost:4566",
				region:      "us-east-1",
				sessionID:   "s-1",
				executionID: "abc-123",
			},
			want:    "http://localhost:4566/athena/home?region=us-east-1#/notebook-explorer/sessions/s-1/calculations/abc-123",
			wantErr: false,
		},
		{
			name: "Missing Region",
			args: args{
				host:      DefaultConsoleHost,
				sessionID: "s-1",
			},
			wantErr: true,
		},
		{
			name: "Missing Session",
			args: args{
				host:   DefaultConsoleHost,
				region: "us-east-1",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildConsoleUrl(tt.args.host, tt.args.region, tt.args.sessionID, tt.args.executionID)
			if (err != nil) != tt.wantErr {
				t.Errorf("BuildConsoleUrl() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("BuildConsoleUrl() got = %v, want %v", got, tt.want)
			}
		})
	}
}
