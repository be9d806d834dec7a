package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestStartRequiresBinary(t *testing.T) {
	if _, err := Start(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestClientRoundTrip(t *testing.T) {
	setHelperCommand(t, "normal")

	client, err := Start(context.Background(), "pcbooth-bridge")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	exists, err := client.ObjectExists(ctx, "camera_custom")
	if err != nil {
		t.Fatalf("ObjectExists returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected camera_custom to exist")
	}
	exists, err = client.ObjectExists(ctx, "missing")
	if err != nil {
		t.Fatalf("ObjectExists returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing object to be absent")
	}

	start, end, err := client.FrameRange(ctx)
	if err != nil {
		t.Fatalf("FrameRange returned error: %v", err)
	}
	if start != 1 || end != 250 {
		t.Fatalf("unexpected frame range: %d..%d", start, end)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestClientOpFailureNamesOp(t *testing.T) {
	setHelperCommand(t, "fail")

	client, err := Start(context.Background(), "pcbooth-bridge")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer client.Close()

	err = client.SetFrame(context.Background(), 9000)
	if err == nil {
		t.Fatal("expected op failure")
	}
	if !strings.Contains(err.Error(), "bridge set_frame") {
		t.Fatalf("expected error to name the op, got %q", err)
	}
	if !strings.Contains(err.Error(), "frame out of range") {
		t.Fatalf("expected engine detail in error, got %q", err)
	}
}

func TestClientEngineExit(t *testing.T) {
	setHelperCommand(t, "exit")

	client, err := Start(context.Background(), "pcbooth-bridge")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer client.Close()

	if _, err := client.ObjectExists(context.Background(), "anything"); err == nil {
		t.Fatal("expected error after engine exit")
	} else if !strings.Contains(err.Error(), "bridge object_exists") {
		t.Fatalf("expected error to name the op, got %q", err)
	}
}

func TestClientForwardsEvents(t *testing.T) {
	setHelperCommand(t, "normal")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	client, err := Start(context.Background(), "pcbooth-bridge", WithLogger(logger))
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer client.Close()

	value, err := client.NodeValue(context.Background(), "Color_group", "Solder_Switch")
	if err != nil {
		t.Fatalf("NodeValue returned error: %v", err)
	}
	if value != 0.5 {
		t.Fatalf("unexpected node value: %v", value)
	}
	if !strings.Contains(buf.String(), "inspecting node") {
		t.Fatalf("expected forwarded engine event in log output, got %q", buf.String())
	}
}

func TestClientRejectsCallsAfterClose(t *testing.T) {
	setHelperCommand(t, "normal")

	client, err := Start(context.Background(), "pcbooth-bridge")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := client.SetFrame(context.Background(), 1); err == nil {
		t.Fatal("expected error for call after Close")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("BRIDGE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := os.Getenv("BRIDGE_HELPER_MODE")
	if mode == "exit" {
		os.Exit(0)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var req struct {
			ID   int64          `json:"id"`
			Op   string         `json:"op"`
			Args map[string]any `json:"args"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		switch req.Op {
		case "shutdown":
			os.Exit(0)
		case "object_exists":
			name, _ := req.Args["name"].(string)
			fmt.Printf("{\"id\":%d,\"ok\":true,\"result\":{\"exists\":%t}}\n", req.ID, name == "camera_custom")
		case "node_value":
			fmt.Println(`{"event":"log","level":"info","msg":"inspecting node"}`)
			fmt.Printf("{\"id\":%d,\"ok\":true,\"result\":{\"value\":0.5}}\n", req.ID)
		case "frame_range":
			fmt.Println("engine chatter that is not json")
			fmt.Printf("{\"id\":%d,\"ok\":true,\"result\":{\"start\":1,\"end\":250}}\n", req.ID)
		case "set_frame":
			if mode == "fail" {
				fmt.Printf("{\"id\":%d,\"ok\":false,\"error\":\"frame out of range\"}\n", req.ID)
			} else {
				fmt.Printf("{\"id\":%d,\"ok\":true}\n", req.ID)
			}
		default:
			fmt.Printf("{\"id\":%d,\"ok\":true}\n", req.ID)
		}
	}
	os.Exit(0)
}
