package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/addonhub/devhub/internal/adapters/outbound/linterjson"
	"github.com/addonhub/devhub/internal/application"
	"github.com/addonhub/devhub/internal/domain"
)

// registerTools registers all devhub MCP tools on the given server.
func registerTools(s *server.MCPServer, h *handlers) {
	// 1. devhub_validate
	s.AddTool(
		mcplib.NewTool("devhub_validate",
			mcplib.WithDescription("Process analysis output for a package version, compare it with the previous approved version and store the annotated result"),
			mcplib.WithString("output", mcplib.Description("Analysis output as a JSON string")),
			mcplib.WithString("output_file", mcplib.Description("Path to the analysis output, relative to the project (used when output is empty)")),
			mcplib.WithString("file_hash", mcplib.Description("Package version identifier (defaults to the sha256 of the output)")),
			mcplib.WithString("previous_file_hash", mcplib.Description("File hash of the version to compare with")),
			mcplib.WithString("addon_guid", mcplib.Description("Add-on GUID, used to find the previous version")),
			mcplib.WithString("version", mcplib.Description("Add-on version string, used to find the previous version")),
			mcplib.WithString("channel", mcplib.Description("listed or unlisted")),
			mcplib.WithBoolean("compatibility", mcplib.Description("Treat the output as a compatibility check")),
		),
		h.handleValidate,
	)

	// 2. devhub_compare
	s.AddTool(
		mcplib.NewTool("devhub_compare",
			mcplib.WithDescription("Compare two analysis outputs without storing anything. Returns the display result."),
			mcplib.WithString("previous", mcplib.Required(), mcplib.Description("Previous analysis output as a JSON string")),
			mcplib.WithString("next", mcplib.Required(), mcplib.Description("New analysis output as a JSON string")),
			mcplib.WithBoolean("compatibility", mcplib.Description("Treat the outputs as compatibility checks")),
		),
		h.handleCompare,
	)

	// 3. devhub_annotate
	s.AddTool(
		mcplib.NewTool("devhub_annotate",
			mcplib.WithDescription("Record whether a message of a stored validation should be ignored in later versions"),
			mcplib.WithString("file_hash", mcplib.Required(), mcplib.Description("File hash of the stored validation")),
			mcplib.WithNumber("index", mcplib.Required(), mcplib.Description("Position of the message in the stored result")),
			mcplib.WithBoolean("ignore", mcplib.Description("Ignore the message (default true); omit together with clear to reset")),
			mcplib.WithBoolean("clear", mcplib.Description("Remove the decision and fall back to the default")),
		),
		h.handleAnnotate,
	)

	// 4. devhub_approve
	s.AddTool(
		mcplib.NewTool("devhub_approve",
			mcplib.WithDescription("Mark a stored validation approved so later versions compare against it"),
			mcplib.WithString("file_hash", mcplib.Required(), mcplib.Description("File hash of the stored validation")),
		),
		h.handleApprove,
	)

	// 5. devhub_show
	s.AddTool(
		mcplib.NewTool("devhub_show",
			mcplib.WithDescription("Return a stored validation in display form, or annotated when requested"),
			mcplib.WithString("file_hash", mcplib.Required(), mcplib.Description("File hash of the stored validation")),
			mcplib.WithBoolean("annotated", mcplib.Description("Return the stored annotated result")),
		),
		h.handleShow,
	)

	// 6. devhub_history
	s.AddTool(
		mcplib.NewTool("devhub_history",
			mcplib.WithDescription("List the stored validations of an add-on"),
			mcplib.WithString("addon_guid", mcplib.Required(), mcplib.Description("Add-on GUID")),
		),
		h.handleHistory,
	)
}

func (h *handlers) handleValidate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args := request.GetArguments()

	data, err := h.outputBytes(args)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	raw, err := linterjson.Decode(data)
	if err != nil {
		return exceptionResult(err)
	}

	fileHash, _ := args["file_hash"].(string)
	if fileHash == "" {
		sum := sha256.Sum256(data)
		fileHash = hex.EncodeToString(sum[:])
	}
	req := application.ValidateRequest{Raw: raw, FileHash: fileHash}
	req.PreviousFileHash, _ = args["previous_file_hash"].(string)
	req.AddonGUID, _ = args["addon_guid"].(string)
	req.Version, _ = args["version"].(string)
	channel, _ := args["channel"].(string)
	req.Channel = domain.Channel(channel)
	req.IsCompatibility, _ = args["compatibility"].(bool)

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	resp, err := svc.Validations.Validate(ctx, req)
	if errors.Is(err, domain.ErrMalformedLinterOutput) {
		return exceptionResult(err)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
	}
	return jsonResult(resp)
}

func (h *handlers) handleCompare(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	prevStr, err := request.RequireString("previous")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	nextStr, err := request.RequireString("next")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	previous, err := linterjson.Decode([]byte(prevStr))
	if err != nil {
		return errorResult(fmt.Sprintf("previous: %v", err)), nil
	}
	next, err := linterjson.Decode([]byte(nextStr))
	if err != nil {
		return errorResult(fmt.Sprintf("next: %v", err)), nil
	}
	compat, _ := request.GetArguments()["compatibility"].(bool)

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	resp, err := svc.Validations.Compare(ctx, previous, next, compat)
	if err != nil {
		return errorResult(fmt.Sprintf("compare failed: %v", err)), nil
	}
	return jsonResult(resp.Display)
}

func (h *handlers) handleAnnotate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fileHash, err := request.RequireString("file_hash")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	index, err := request.RequireFloat("index")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	args := request.GetArguments()
	var value *bool
	if reset, _ := args["clear"].(bool); !reset {
		ignore := true
		if v, ok := args["ignore"].(bool); ok {
			ignore = v
		}
		value = &ignore
	}

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	key, err := svc.Annotations.AnnotateStored(ctx, fileHash, int(index), value)
	if err != nil {
		return errorResult(fmt.Sprintf("annotate failed: %v", err)), nil
	}
	return jsonResult(domain.StoredAnnotation{FileHash: fileHash, MessageKey: string(key), IgnoreDuplicates: value})
}

func (h *handlers) handleApprove(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fileHash, err := request.RequireString("file_hash")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	if err := svc.Validations.Approve(ctx, fileHash); err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult("approved " + fileHash), nil
}

func (h *handlers) handleShow(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fileHash, err := request.RequireString("file_hash")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	stored, display, err := svc.Validations.Stored(ctx, fileHash)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if annotated, _ := request.GetArguments()["annotated"].(bool); annotated {
		return jsonResult(stored)
	}
	return jsonResult(display)
}

func (h *handlers) handleHistory(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	guid, err := request.RequireString("addon_guid")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer svc.Close()

	vs, err := svc.Validations.History(ctx, guid)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(vs)
}

// outputBytes returns the analysis output given inline or as a file.
func (h *handlers) outputBytes(args map[string]any) ([]byte, error) {
	if output, _ := args["output"].(string); output != "" {
		return []byte(output), nil
	}
	file, _ := args["output_file"].(string)
	if file == "" {
		return nil, errors.New("one of output or output_file is required")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(h.projectPath, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}
	return data, nil
}

// exceptionResult reports a validation that could not be completed, carrying
// the canned exception result so clients still have something to display.
func exceptionResult(cause error) (*mcplib.CallToolResult, error) {
	res, err := jsonResult(domain.ExceptionResult())
	if err != nil {
		return nil, err
	}
	res.Content = append(res.Content, mcplib.NewTextContent(cause.Error()))
	res.IsError = true
	return res, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
