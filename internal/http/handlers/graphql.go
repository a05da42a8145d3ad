package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
)

// Executor runs one GraphQL request. *graphql.Schema satisfies it.
type Executor interface {
	Exec(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) *graphql.Response
}

// OperationObserver counts executed operations. *observability.Prom satisfies it.
type OperationObserver interface {
	ObserveGraphQL(opType string, failed bool)
}

// POST body media types accepted on /graphql.
const (
	MediaJSON    = "application/json"
	MediaGraphQL = "application/graphql"
	MediaForm    = "application/x-www-form-urlencoded"
)

type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	exec     Executor
	observer OperationObserver
	explorer bool
}

// NewGraphQLHandler wires the executor. observer may be nil. explorer controls
// whether browsers get the GraphiQL page on GET.
func NewGraphQLHandler(exec Executor, observer OperationObserver, explorer bool) *GraphQLHandler {
	return &GraphQLHandler{exec: exec, observer: observer, explorer: explorer}
}

// Post reads a JSON body, a raw GraphQL document, or a form. For the raw
// document operationName and variables come from the URL.
func (h *GraphQLHandler) Post(ctx *gin.Context) {
	var req GraphQLRequest

	switch strings.ToLower(ctx.ContentType()) {
	case MediaGraphQL:
		body, err := io.ReadAll(ctx.Request.Body)
		if !bodyRead(ctx, err) {
			return
		}

		req.Query = string(body)
		req.OperationName = ctx.Query("operationName")
		if !decodeVariables(ctx, ctx.Query("variables"), &req) {
			return
		}

	case MediaForm:
		if !bodyRead(ctx, ctx.Request.ParseForm()) {
			return
		}

		form := ctx.Request.PostForm
		req.Query = form.Get("query")
		req.OperationName = form.Get("operationName")
		if !decodeVariables(ctx, form.Get("variables"), &req) {
			return
		}

	default:
		if !BindJSON(ctx, &req) {
			return
		}
	}

	if strings.TrimSpace(req.Query) == "" {
		RespondBadRequest(ctx, "Must provide query string", nil)
		return
	}

	h.execute(ctx, req)
}

// Get executes queries passed as URL parameters. Mutations are refused so a
// link or prefetch can never change data. Without a query it serves GraphiQL.
func (h *GraphQLHandler) Get(ctx *gin.Context) {
	req := GraphQLRequest{
		Query:         ctx.Query("query"),
		OperationName: ctx.Query("operationName"),
	}

	if h.explorer && (req.Query == "" || wantsHTML(ctx)) {
		GraphiQL(ctx)
		return
	}

	if req.Query == "" {
		RespondBadRequest(ctx, "Must provide query string", nil)
		return
	}

	if !decodeVariables(ctx, ctx.Query("variables"), &req) {
		return
	}

	if operationType(req.Query, req.OperationName) == string(ast.Mutation) {
		RespondMethodNotAllowed(ctx, http.MethodPost, "Can only perform a mutation operation from a POST request")
		return
	}

	h.execute(ctx, req)
}

func (h *GraphQLHandler) execute(ctx *gin.Context, req GraphQLRequest) {
	resp := h.exec.Exec(ctx.Request.Context(), req.Query, req.OperationName, req.Variables)

	if h.observer != nil {
		h.observer.ObserveGraphQL(operationType(req.Query, req.OperationName), len(resp.Errors) > 0)
	}

	ctx.JSON(http.StatusOK, resp)
}

func bodyRead(ctx *gin.Context, err error) bool {
	if respondTooLarge(ctx, err) {
		return false
	}

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": err.Error()})
		return false
	}

	return true
}

// decodeVariables parses the JSON-encoded variables parameter, if any.
func decodeVariables(ctx *gin.Context, raw string, req *GraphQLRequest) bool {
	if raw == "" {
		return true
	}

	if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
		RespondBadRequest(ctx, "Variables are invalid JSON", gin.H{"reason": err.Error()})
		return false
	}

	return true
}

// operationType names the operation that would run, or "" when the document
// does not parse or the operation cannot be picked.
func operationType(query, operationName string) string {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return ""
	}

	op := doc.Operations.ForName(operationName)
	if op == nil {
		return ""
	}

	return string(op.Operation)
}

func wantsHTML(ctx *gin.Context) bool {
	accept := ctx.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}
