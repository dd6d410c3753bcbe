package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/booking_tools"
)

func TestBindConfigFlags(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		args         []string
		wantBaseURL  string
		wantPort     int
		wantEmployee int64
		wantMetrics  bool
	}{
		{
			name:        "defaults",
			wantBaseURL: config.DefaultAPIBaseURL,
			wantPort:    config.DefaultCallbackPort,
		},
		{
			name:         "environment",
			env:          map[string]string{"DEPT_API_BASE_URL": "https://env.example.com/api", "DEPT_EMPLOYEE_ID": "42"},
			wantBaseURL:  "https://env.example.com/api",
			wantPort:     config.DefaultCallbackPort,
			wantEmployee: 42,
		},
		{
			name:         "flags win over environment",
			env:          map[string]string{"DEPT_API_BASE_URL": "https://env.example.com/api", "OAUTH_CALLBACK_PORT": "3100"},
			args:         []string{"--api-base-url=https://flag.example.com/api", "--callback-port=4000", "--employee-id=7", "--metrics-enabled"},
			wantBaseURL:  "https://flag.example.com/api",
			wantPort:     4000,
			wantEmployee: 7,
			wantMetrics:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			addConfigFlags(flags)
			v := config.New()
			require.NoError(t, bindConfigFlags(v, flags))
			require.NoError(t, flags.Parse(tt.args))

			cfg, err := config.Load(v)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBaseURL, cfg.APIBaseURL)
			assert.Equal(t, tt.wantPort, cfg.CallbackPort)
			assert.Equal(t, tt.wantEmployee, cfg.Defaults.EmployeeID)
			assert.Equal(t, tt.wantMetrics, cfg.MetricsEnabled)
		})
	}
}

func TestBindConfigFlags_UndefinedFlag(t *testing.T) {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	err := bindConfigFlags(config.New(), flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not defined")
}

func TestStartWithReadySignal(t *testing.T) {
	tests := []struct {
		name    string
		start   func(ready chan<- struct{}) error
		wantErr string
	}{
		{
			name: "ready",
			start: func(ready chan<- struct{}) error {
				close(ready)
				select {}
			},
		},
		{
			name:    "listen failure",
			start:   func(chan<- struct{}) error { return errors.New("address already in use") },
			wantErr: "test server failed to start: address already in use",
		},
		{
			name:    "closed before ready",
			start:   func(chan<- struct{}) error { return http.ErrServerClosed },
			wantErr: "test server stopped during startup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := startWithReadySignal("test server", tt.start)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"book_hours":              "Booking Tools",
		"book_hours_bulk":         "Booking Tools",
		"update_hours":            "Booking Tools",
		"delete_hours":            "Booking Tools",
		"search_budget":           "Budget Tools",
		"search_internal_budgets": "Budget Tools",
		"check_booked_hours":      "Reporting Tools",
		"unknown":                 "Other",
	}
	for name, want := range tests {
		assert.Equal(t, want, getCategoryFromToolName(name), name)
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	sc := server.NewServerContext(context.Background(), server.Options{})
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer(serverName, "test", mcpserver.WithToolCapabilities(true))
	require.NoError(t, booking_tools.RegisterBookingTools(mcpSrv, sc))

	var tools []mcp.Tool
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}

	md := generateToolsMarkdown(tools)

	assert.Contains(t, md, "# MCP Tools Reference")
	assert.Contains(t, md, "- [Booking Tools](#booking-tools)")
	assert.Contains(t, md, "## Budget Tools")
	assert.Contains(t, md, "### book_hours\n")
	assert.Contains(t, md, "### check_booked_hours\n")
	assert.Contains(t, md, "- `hours` (number, required): ")
	assert.Contains(t, md, "- `budgetId` (number, optional): ")
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "dept-hour-booking-mcp version 1.2.3\n", out.String())
}
