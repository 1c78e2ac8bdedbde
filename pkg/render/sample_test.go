package render

import (
	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/fold"
	"github.com/matzehuels/apiview/pkg/token"
)

func kw(s string) token.Token    { return token.New(token.Keyword, s) }
func ws(s string) token.Token    { return token.New(token.Whitespace, s) }
func punct(s string) token.Token { return token.New(token.Punctuation, s) }
func name(s string) token.Token  { return token.New(token.MemberName, s) }
func lit(s string) token.Token   { return token.New(token.Literal, s) }

var (
	nl = token.LineBreak()
	cs = token.ContentStart()
	ce = token.ContentEnd()
)

// sampleTokens is a small C#-like surface with documentation, deprecated and
// skip-diff ranges, a container namespace, two leaf types and an empty leaf.
func sampleTokens() []token.Token {
	return []token.Token{
		token.New(token.DocumentRangeStart, ""), token.New(token.Comment, "/// Storage APIs"), nl, token.New(token.DocumentRangeEnd, ""),
		kw("namespace"), ws(" "), token.Heading("Azure.Storage").WithLineID("N:Azure.Storage"), nl,
		cs,
		token.New(token.DocumentRangeStart, ""), token.New(token.Comment, "/// A client."), nl, token.New(token.DocumentRangeEnd, ""),
		kw("public"), ws(" "), kw("class"), ws(" "), token.Heading("BlobClient").WithLineID("T:BlobClient"), nl,
		cs,
		ws("    "), kw("public"), ws(" "), token.New(token.TypeName, "Response").WithNavigation("T:Response"), ws(" "),
		name("Upload").WithLineID("M:Upload"), punct("("), token.New(token.StringLiteral, `"a<b>"`), punct(");"), nl,
		token.New(token.DeprecatedRangeStart, ""), ws("    "), kw("void"), ws(" "), name("Old").WithLineID("M:Old"), punct("();"), nl, token.New(token.DeprecatedRangeEnd, ""),
		token.New(token.SkipDiffRangeStart, ""), token.New(token.Comment, "// generated 2024"), nl, token.New(token.SkipDiffRangeEnd, ""),
		ce,
		kw("public"), ws(" "), kw("enum"), ws(" "), token.Heading("Tier").WithLineID("T:Tier"), nl,
		cs,
		name("Hot").WithLineID("F:Hot"),
		ce,
		token.Heading("struct Empty"), nl,
		cs,
		ce,
		ce,
		punct("}"), nl,
	}
}

var sampleDiagnostics = []codefile.Diagnostic{
	{DiagnosticID: "AZC0002", TargetID: "M:Upload", Text: "Use a cancellation token", Level: codefile.LevelWarning},
	{DiagnosticID: "AZC0003", TargetID: "M:Upload", Text: "Document this", Level: codefile.LevelInfo},
}

func sampleFolded() fold.Result {
	return fold.Fold(sampleTokens())
}

func texts(lines []Line, mode Mode) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = TextOf(l.Display, mode)
	}
	return out
}
