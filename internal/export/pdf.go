package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PDFRenderer prints HTML to PDF through a headless Chrome.
type PDFRenderer struct {
	Bin       string
	Landscape bool
}

func (p PDFRenderer) PDF(ctx context.Context, markup string) ([]byte, error) {
	l := launcher.New().Headless(true).Leakless(false)
	if p.Bin != "" {
		l = l.Bin(p.Bin)
	}
	u, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(markup); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:         p.Landscape,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return io.ReadAll(stream)
}
