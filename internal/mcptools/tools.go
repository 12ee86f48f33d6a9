// Package mcptools exposes the outline operations as Model Context Protocol
// tools, so an agent can navigate a PDF section by section.
package mcptools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsawler/pdfoutline"
	"github.com/tsawler/pdfoutline/internal/cache"
	"github.com/tsawler/pdfoutline/model"
)

// Tools registers the outline tools on an MCP server. Documents are given
// either as a file path or as base64 bytes and parsed through the cache.
type Tools struct {
	docs     *cache.Cache
	log      *slog.Logger
	maxBytes int64
}

// New creates the tool set. maxBytes bounds the size of an accepted document.
func New(docs *cache.Cache, log *slog.Logger, maxBytes int64) *Tools {
	return &Tools{docs: docs, log: log, maxBytes: maxBytes}
}

// Register adds every tool to srv.
func (t *Tools) Register(srv *mcp.Server) {
	t.registerOutline(srv)
	t.registerReadSection(srv)
	t.registerPeekSection(srv)
	t.registerListImages(srv)
	t.registerGetImage(srv)
	t.registerInfo(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	props := map[string]any{
		"path": map[string]any{"type": "string", "description": "Path of the PDF file"},
		"data": map[string]any{"type": "string", "description": "Base64 encoded PDF bytes, used when path is empty"},
	}
	for k, v := range properties {
		props[k] = v
	}
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var sectionProperty = map[string]any{
	"type":        "string",
	"description": `Section ID such as "s1-2"; omit for the whole document`,
}

// source is embedded in every request
type source struct {
	Path string `json:"path"`
	Data string `json:"data"`
}

func (t *Tools) bytes(src source) ([]byte, error) {
	switch {
	case src.Path != "":
		fi, err := os.Stat(src.Path)
		if err != nil {
			return nil, err
		}
		if fi.Size() > t.maxBytes {
			return nil, fmt.Errorf("%s exceeds max size (%d bytes)", src.Path, t.maxBytes)
		}
		return os.ReadFile(src.Path)
	case src.Data != "":
		data, err := base64.StdEncoding.DecodeString(src.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
		if int64(len(data)) > t.maxBytes {
			return nil, fmt.Errorf("document exceeds max size (%d bytes)", t.maxBytes)
		}
		return data, nil
	}
	return nil, errors.New("path or data is required")
}

func (t *Tools) document(src source) (*pdfoutline.Document, error) {
	data, err := t.bytes(src)
	if err != nil {
		return nil, err
	}
	return t.docs.Get(data)
}

func parseSection(s string) (*model.SectionID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := model.ParseSectionID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handler adapts a typed endpoint to the raw tool handler. Endpoint errors
// become tool results with IsError set so the agent can read them.
func handler[R any](t *Tools, name string, endpoint func(context.Context, *R) (*mcp.CallToolResult, error)) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r R
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, fmt.Errorf("%s: invalid arguments: %w", name, err)
			}
		}
		res, err := endpoint(ctx, &r)
		if err != nil {
			t.log.Debug("tool failed", "tool", name, "kind", pdfoutline.KindOf(err).String(), "error", err)
			res = &mcp.CallToolResult{}
			res.SetError(err)
		}
		return res, nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}

// --- outline ---

type outlineReq struct {
	source
}

func (t *Tools) registerOutline(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "outline",
		Description: "Return the section tree of a PDF with titles, IDs, page ranges and image counts.",
		InputSchema: inputSchema(nil, nil),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *outlineReq) (*mcp.CallToolResult, error) {
		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		return jsonResult(doc.Tree())
	}))
}

// --- read_section ---

type readReq struct {
	source
	Section string `json:"section"`
}

func (t *Tools) registerReadSection(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "read_section",
		Description: "Return the full Markdown text of a section, including its subsections.",
		InputSchema: inputSchema(map[string]any{"section": sectionProperty}, nil),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *readReq) (*mcp.CallToolResult, error) {
		id, err := parseSection(r.Section)
		if err != nil {
			return nil, err
		}
		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		content, err := doc.ReadSection(id)
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: content.Text}},
		}, nil
	}))
}

// --- peek_section ---

type peekReq struct {
	source
	Section  string `json:"section"`
	Position string `json:"position"`
	Limit    *int   `json:"limit"`
}

func (t *Tools) registerPeekSection(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "peek_section",
		Description: "Return a bounded excerpt of a section from its beginning, middle, ending or a random point.",
		InputSchema: inputSchema(map[string]any{
			"section": sectionProperty,
			"position": map[string]any{
				"type": "string",
				"enum": []string{"beginning", "middle", "ending", "random"},
			},
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": fmt.Sprintf("Maximum characters, default %d", pdfoutline.DefaultPeekLimit),
			},
		}, nil),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *peekReq) (*mcp.CallToolResult, error) {
		id, err := parseSection(r.Section)
		if err != nil {
			return nil, err
		}
		position := model.PositionBeginning
		if r.Position != "" {
			if position, err = model.ParsePosition(r.Position); err != nil {
				return nil, err
			}
		}
		limit := pdfoutline.DefaultPeekLimit
		if r.Limit != nil {
			if *r.Limit < 0 {
				return nil, fmt.Errorf("invalid limit %d", *r.Limit)
			}
			limit = *r.Limit
		}

		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		peek, err := doc.PeekSection(id, position, limit)
		if err != nil {
			return nil, err
		}
		return jsonResult(peek)
	}))
}

// --- list_section_images ---

type imagesReq struct {
	source
	Section string `json:"section"`
}

func (t *Tools) registerListImages(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_section_images",
		Description: "List the images placed in a section with their IDs, pages and formats.",
		InputSchema: inputSchema(map[string]any{"section": sectionProperty}, nil),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *imagesReq) (*mcp.CallToolResult, error) {
		id, err := parseSection(r.Section)
		if err != nil {
			return nil, err
		}
		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		refs, err := doc.ListSectionImages(id)
		if err != nil {
			return nil, err
		}
		if refs == nil {
			refs = []model.EnrichedImageRef{}
		}
		return jsonResult(refs)
	}))
}

// --- get_image ---

type imageReq struct {
	source
	ID string `json:"id"`
}

func (t *Tools) registerGetImage(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_image",
		Description: `Return the bytes of an image by ID, such as "p1-Im1".`,
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Image ID from list_section_images"},
		}, []string{"id"}),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *imageReq) (*mcp.CallToolResult, error) {
		if r.ID == "" {
			return nil, errors.New("id is required")
		}
		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		img, err := doc.GetImage(r.ID)
		if err != nil {
			return nil, err
		}

		summary := &mcp.TextContent{Text: fmt.Sprintf("%s: %s, %d bytes", r.ID, img.Format, len(img.Data))}
		switch img.Format {
		case model.ImageFormatPNG, model.ImageFormatJPEG:
			return &mcp.CallToolResult{Content: []mcp.Content{
				summary,
				&mcp.ImageContent{Data: img.Data, MIMEType: img.Format.MIMEType()},
			}}, nil
		}
		// Formats an agent cannot display travel as an embedded blob.
		return &mcp.CallToolResult{Content: []mcp.Content{
			summary,
			&mcp.EmbeddedResource{Resource: &mcp.ResourceContents{
				URI:      "pdf-image://" + r.ID,
				MIMEType: img.Format.MIMEType(),
				Blob:     img.Data,
			}},
		}}, nil
	}))
}

// --- info ---

type infoReq struct {
	source
}

func (t *Tools) registerInfo(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "info",
		Description: "Return the document metadata: title, author, dates and page count.",
		InputSchema: inputSchema(nil, nil),
	}
	srv.AddTool(tool, handler(t, tool.Name, func(_ context.Context, r *infoReq) (*mcp.CallToolResult, error) {
		doc, err := t.document(r.source)
		if err != nil {
			return nil, err
		}
		return jsonResult(doc.Info())
	}))
}
