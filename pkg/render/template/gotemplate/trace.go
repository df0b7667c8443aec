package gotemplate

import (
	"fmt"

	gotemplatepkg "github.com/goliatone/go-template"
)

// TraceComments returns a post hook that wraps each template's output in
// HTML comments naming the template, so generated pages show which partial
// produced which fragment.
func TraceComments() gotemplatepkg.PostHook {
	return func(ctx *gotemplatepkg.HookContext) (string, error) {
		return fmt.Sprintf("<!-- %s -->%s<!-- /%s -->", ctx.TemplateName, ctx.Output, ctx.TemplateName), nil
	}
}
