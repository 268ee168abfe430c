package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/foomo/contentserver-booknav/scrape"
	"github.com/foomo/contentserver-booknav/service"
	"github.com/foomo/contentserver-booknav/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

// ModePosts lists the blog instead of the book.
const ModePosts = "posts"

type ScrapeRequest struct {
	URL      string `json:"url"`      // The URL to scrape
	Selector string `json:"selector"` // CSS selector to extract content
}

type ScrapeResponse struct {
	Summary  *vo.ContentSummary `json:"summary"`
	Markdown string             `json:"markdown"` // The extracted content in markdown format
}

type GetPageRequest struct {
	ID        string `json:"id"`
	FrontPage bool   `json:"frontPage"`
	Render    bool   `json:"render"`
}

type GetPageResponse struct {
	Page *vo.Page `json:"page"`
}

type NavigateRequest struct {
	ID           string `json:"id"`
	Direction    string `json:"direction"`
	WithComments bool   `json:"withComments"`
	FrontPage    bool   `json:"frontPage"`
}

type NavigateResponse struct {
	Page *vo.PageSummary `json:"page"` // nil when there is nowhere to go
}

type TOCRequest struct {
	Mode string `json:"mode"`
}

type TOCResponse struct {
	TOC *vo.TOC `json:"toc"`
}

// NewServer creates a new MCP server with the scrape tool and, given a
// service, the book navigation tools
func NewServer(client *http.Client, serviceInstance service.Service) *server.MCPServer {
	if client == nil {
		client = http.DefaultClient
	}
	s := server.NewMCPServer(
		"Book Navigation MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape",
		mcp.WithDescription("Scrape content from a webpage and convert it to markdown"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the webpage to scrape"),
		),
		mcp.WithString("selector",
			mcp.Required(),
			mcp.Description("CSS selector to extract specific content (e.g., '#content', '.article', 'article')"),
		),
	)
	s.AddTool(scrapeTool, mcp.NewTypedToolHandler(getScrapeHandler(client)))

	if serviceInstance == nil {
		return s
	}

	getPageTool := mcp.NewTool("getPage",
		mcp.WithDescription("Get a page of the book with its number, breadcrumb and previous/next pages"),
		mcp.WithString("id",
			mcp.Description("The unit id of the page, may be empty when frontPage is set"),
		),
		mcp.WithBoolean("frontPage",
			mcp.Description("The page is requested as the site front page"),
		),
		mcp.WithBoolean("render",
			mcp.Description("Include the page content as markdown"),
		),
	)
	s.AddTool(getPageTool, mcp.NewTypedToolHandler(getPageHandler(serviceInstance)))

	navigateTool := mcp.NewTool("navigate",
		mcp.WithDescription("Find the next or previous page, optionally the nearest one with comments"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The unit id to start from"),
		),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Enum(string(vo.DirectionNext), string(vo.DirectionPrevious)),
			mcp.Description("Which way to move"),
		),
		mcp.WithBoolean("withComments",
			mcp.Description("Skip pages without comments"),
		),
		mcp.WithBoolean("frontPage",
			mcp.Description("The reader is on the site front page"),
		),
	)
	s.AddTool(navigateTool, mcp.NewTypedToolHandler(getNavigateHandler(serviceInstance)))

	tocTool := mcp.NewTool("toc",
		mcp.WithDescription("List the book in reading order with page numbers, or the blog newest first"),
		mcp.WithString("mode",
			mcp.Enum(string(navigation.ModeReadable), string(navigation.ModeStructural), ModePosts),
			mcp.Description("readable lists pages only, structural includes chapters, posts lists the blog"),
		),
	)
	s.AddTool(tocTool, mcp.NewTypedToolHandler(getTOCHandler(serviceInstance)))

	return s
}

func jsonResult(response any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

func getScrapeHandler(client *http.Client) func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		if args.Selector == "" {
			return mcp.NewToolResultError("selector is required"), nil
		}

		summary, markdown, err := scrape.Scrape(ctx, client, args.URL, args.Selector)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to scrape content: %v", err)), nil
		}
		return jsonResult(ScrapeResponse{
			Summary:  summary,
			Markdown: string(markdown),
		})
	}
}

func getPageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" && !args.FrontPage {
			return mcp.NewToolResultError("id is required"), nil
		}

		page, err := serviceInstance.GetPage(ctx, args.ID, service.PageOptions{
			FrontPage: args.FrontPage,
			Render:    args.Render,
		})
		if errors.Is(err, service.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("page %q not found", args.ID)), nil
		} else if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get page: %v", err)), nil
		}
		return jsonResult(GetPageResponse{Page: page})
	}
}

func getNavigateHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args NavigateRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args NavigateRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}
		direction := vo.Direction(args.Direction)
		if direction != vo.DirectionNext && direction != vo.DirectionPrevious {
			return mcp.NewToolResultError("direction must be next or previous"), nil
		}

		summary, err := serviceInstance.Navigate(ctx, args.ID, service.NavigateOptions{
			Direction:    direction,
			WithComments: args.WithComments,
			FrontPage:    args.FrontPage,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to navigate: %v", err)), nil
		}
		return jsonResult(NavigateResponse{Page: summary})
	}
}

func getTOCHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args TOCRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args TOCRequest) (*mcp.CallToolResult, error) {
		var (
			toc *vo.TOC
			err error
		)
		switch args.Mode {
		case ModePosts:
			toc, err = serviceInstance.GetPosts(ctx)
		case "", string(navigation.ModeReadable), string(navigation.ModeStructural):
			toc, err = serviceInstance.GetTOC(ctx, navigation.ParseMode(args.Mode))
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q", args.Mode)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list pages: %v", err)), nil
		}
		return jsonResult(TOCResponse{TOC: toc})
	}
}
