package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/catalog"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/entry"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/export"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/scanner"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/session"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/share"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/storage"
)

// qtyFlag collects repeated --qty Q@DD/Mon/YYYY values.
type qtyFlag []string

func (q *qtyFlag) String() string { return strings.Join(*q, ",") }

func (q *qtyFlag) Set(v string) error {
	*q = append(*q, v)
	return nil
}

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "scanner:dedupe" {
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		previous := fs.String("previous", "", "value the field held before")
		value := fs.String("value", "", "new field value")
		_ = fs.Parse(os.Args[2:])
		fmt.Println(scanner.ExtractNewBarcode(*value, *previous))
		return
	}

	log := logger.New(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	switch cmd {
	case "catalog:load":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "xlsx|xls|csv|html master file")
		url := fs.String("url", "", "download the master file from this URL")
		name := fs.String("name", "", "file name to use for a URL download")
		_ = fs.Parse(os.Args[2:])
		if (*file == "") == (*url == "") {
			must(fmt.Errorf("exactly one of --file or --url is required"))
		}
		svc, err := catalog.NewService(db, cfg, log)
		must(err)
		var state internal.CatalogState
		if *file != "" {
			content, err := os.ReadFile(*file)
			must(err)
			state, err = svc.Load(ctx, *file, content)
			must(err)
		} else {
			state, err = svc.LoadURL(ctx, *url, *name)
			must(err)
		}
		fmt.Printf("catalog loaded file=%s rows=%d warehouse=%q locked=%v\n", state.FileName, state.Rows, state.Warehouse, state.Locked)
	case "catalog:info":
		svc, err := catalog.NewService(db, cfg, log)
		must(err)
		info := svc.Info()
		fmt.Printf("file=%s rows=%d warehouse=%q locked=%v loadedAt=%s\n", info.FileName, info.Rows, svc.Warehouse(), info.Locked, info.LoadedAt)
	case "catalog:unlock":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		password := fs.String("password", "", "unlock password")
		_ = fs.Parse(os.Args[2:])
		svc, err := catalog.NewService(db, cfg, log)
		must(err)
		must(svc.Unlock(*password))
		fmt.Println("catalog unlocked")
	case "lookup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		barcode := fs.String("barcode", "", "scanned barcode")
		code := fs.String("code", "", "item code")
		_ = fs.Parse(os.Args[2:])
		term, kind := searchFlags(*barcode, *code)
		svc, err := catalog.NewService(db, cfg, log)
		must(err)
		item, ok := svc.Lookup(term, kind)
		if !ok {
			fmt.Println("not found")
			os.Exit(2)
		}
		printItem(item)
	case "scan:save":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		barcode := fs.String("barcode", "", "scanned barcode")
		code := fs.String("code", "", "item code")
		var qtys qtyFlag
		fs.Var(&qtys, "qty", "quantity@DD/Mon/YYYY, repeatable")
		_ = fs.Parse(os.Args[2:])
		term, kind := searchFlags(*barcode, *code)

		cat, err := catalog.NewService(db, cfg, log)
		must(err)
		item, ok := cat.Lookup(term, kind)
		if !ok {
			must(fmt.Errorf("%s not found in master data", term))
		}
		form, err := formFromFlags(qtys)
		must(err)
		quantities, err := form.Collect(time.Now())
		must(err)

		sess, err := session.NewService(db, log, nil)
		must(err)
		saved, err := sess.Save(item, quantities, term)
		must(err)
		fmt.Printf("saved id=%s itemCode=%s quantities=%d\n", saved.ID, saved.ItemCode, len(saved.Quantities))
	case "session:list":
		sess, err := session.NewService(db, log, nil)
		must(err)
		for i, it := range sess.Items() {
			parts := make([]string, 0, len(it.Quantities))
			for _, q := range it.Quantities {
				parts = append(parts, q.Quantity+"@"+export.FormatDate(q.Expiry))
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n", i+1, it.ID, it.ItemCode, it.ItemDescription, strings.Join(parts, " "), export.FormatDate(it.ScanDate))
		}
	case "session:remove":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "item id")
		_ = fs.Parse(os.Args[2:])
		sess, err := session.NewService(db, log, nil)
		must(err)
		must(sess.Remove(*id))
		fmt.Printf("removed id=%s\n", *id)
	case "session:clear":
		sess, err := session.NewService(db, log, nil)
		must(err)
		n := sess.Len()
		must(sess.Clear())
		fmt.Printf("cleared %d items\n", n)
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		format := fs.String("format", "pdf", "pdf|html|xlsx")
		warehouse := fs.String("warehouse", "", "report title (defaults to the catalog name)")
		ref := fs.String("ref", "", "numeric reference code")
		out := fs.String("out", "", "output directory")
		shareTo := fs.String("share", "", "dir|mail")
		to := fs.String("to", "", "comma-separated mail recipients")
		_ = fs.Parse(os.Args[2:])
		if *out != "" {
			cfg.OutputDir = *out
		}

		cat, err := catalog.NewService(db, cfg, log)
		must(err)
		if strings.TrimSpace(*warehouse) == "" {
			*warehouse = cat.Warehouse()
		}
		sess, err := session.NewService(db, log, nil)
		must(err)
		sink, err := makeSink(cfg, *shareTo, *to)
		must(err)
		exp, err := export.NewExporter(db, export.PDFRenderer{Bin: cfg.ChromeBin, Landscape: cfg.PDFLandscape}, cfg, log, nil)
		must(err)

		res, err := exp.Export(ctx, sess.Items(), export.Request{
			Format:        internal.ExportFormat(strings.ToLower(*format)),
			Warehouse:     *warehouse,
			ReferenceCode: *ref,
			Sink:          sink,
		})
		if errors.Is(err, export.ErrNothingToExport) {
			fmt.Println("No items to export")
			os.Exit(2)
		}
		must(err)
		fmt.Printf("exported %d items to %s traceId=%s", res.Run.ItemCount, res.Path, res.Run.TraceID)
		if res.SharedVia != "" {
			fmt.Printf(" shared=%s", res.SharedVia)
		}
		fmt.Println()
	case "export:history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListExportRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\t%d\t%s\t%s\n", r.ID, r.CreatedAt, r.Format, r.Title, r.ItemCount, r.Path, r.SharedVia)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func searchFlags(barcode, code string) (string, internal.SearchKind) {
	switch {
	case strings.TrimSpace(barcode) != "":
		return barcode, internal.SearchBarcode
	case strings.TrimSpace(code) != "":
		return code, internal.SearchItemCode
	}
	must(fmt.Errorf("please enter a barcode or item code"))
	return "", ""
}

func formFromFlags(values []string) (*entry.Form, error) {
	form := entry.FormFromRows(make([]internal.QuantityRow, len(values)))
	for i, v := range values {
		qty, date, ok := strings.Cut(v, "@")
		if !ok {
			return nil, fmt.Errorf("--qty %q: want quantity@DD/Mon/YYYY", v)
		}
		d, err := export.ParseDisplayDate(date)
		if err != nil {
			return nil, err
		}
		row := entry.RowFor("", d)
		for field, value := range map[entry.RowField]string{
			entry.FieldQuantity: qty,
			entry.FieldDay:      row.Day,
			entry.FieldMonth:    row.Month,
			entry.FieldYear:     row.Year,
		} {
			if err := form.Set(i, field, value); err != nil {
				return nil, fmt.Errorf("--qty %q: %w", v, err)
			}
		}
	}
	return form, nil
}

func makeSink(cfg config.Config, kind, to string) (share.Sink, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "":
		return nil, nil
	case "dir":
		return share.DirSink{Dir: cfg.ShareDir}, nil
	case "mail":
		var recipients []string
		for _, r := range strings.Split(to, ",") {
			if r = strings.TrimSpace(r); r != "" {
				recipients = append(recipients, r)
			}
		}
		return share.NewMailSink(cfg, recipients)
	default:
		return nil, fmt.Errorf("unsupported share target: %s", kind)
	}
}

func printItem(item internal.NormalizedItem) {
	fmt.Printf("brand=%q itemCode=%q description=%q uom=%q barcode=%q\n", item.BrandName, item.ItemCode, item.ItemDescription, item.UOM, item.Barcode)
}

func usage() {
	fmt.Println("usage: iow <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:load --file=./Shaab - Food.xlsx | --url=https://... [--name=file.csv]")
	fmt.Println("  catalog:info")
	fmt.Println("  catalog:unlock --password=...")
	fmt.Println("  lookup --barcode=... | --code=...")
	fmt.Println("  scan:save --barcode=... | --code=... --qty=5@20/Jan/2027 [--qty=...]")
	fmt.Println("  scanner:dedupe --previous=1234 --value=12341234")
	fmt.Println("  session:list")
	fmt.Println("  session:remove --id=...")
	fmt.Println("  session:clear")
	fmt.Println("  export --format=pdf|html|xlsx [--warehouse=...] [--ref=123] [--out=./out] [--share=dir|mail --to=a@b.c]")
	fmt.Println("  export:history [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
