package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/auth"
	"github.com/erazemk/omara/internal/datasync"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/query"
	"github.com/erazemk/omara/internal/storage"
	"github.com/erazemk/omara/internal/store"
)

var errUsage = errors.New("usage")

// app wires the stores to the command handlers.
type app struct {
	out        io.Writer
	now        func() time.Time
	sync       *datasync.Manager
	items      *store.ItemStore
	outfits    *store.OutfitStore
	categories *store.CategoryStore
	images     *store.ImageStore
	auth       *auth.Service
}

func newApp(kv *storage.Adapter, out io.Writer, opts ...store.Option) *app {
	a := &app{
		out:        out,
		now:        time.Now,
		sync:       datasync.NewManager(kv),
		items:      store.NewItemStore(kv, opts...),
		outfits:    store.NewOutfitStore(kv, opts...),
		categories: store.NewCategoryStore(kv, opts...),
		images:     store.NewImageStore(kv, opts...),
		auth:       auth.NewService(store.NewUserStore(kv, opts...)),
	}
	return a
}

type command func(ctx context.Context, args []string) error

func (a *app) commands() map[string]command {
	return map[string]command{
		"init":         a.cmdInit,
		"reset":        a.cmdReset,
		"export":       a.cmdExport,
		"import":       a.cmdImport,
		"clear":        a.cmdClear,
		"stats":        a.cmdStats,
		"items":        a.cmdItems,
		"add-item":     a.cmdAddItem,
		"edit-item":    a.cmdEditItem,
		"rm-item":      a.cmdRmItem,
		"fav":          a.cmdFav,
		"wear":         a.cmdWear,
		"categories":   a.cmdCategories,
		"add-category": a.cmdAddCategory,
		"rm-category":  a.cmdRmCategory,
		"outfits":      a.cmdOutfits,
		"add-outfit":   a.cmdAddOutfit,
		"wear-outfit":  a.cmdWearOutfit,
		"rm-outfit":    a.cmdRmOutfit,
		"upload":       a.cmdUpload,
		"images":       a.cmdImages,
		"rm-image":     a.cmdRmImage,
		"login":        a.cmdLogin,
		"register":     a.cmdRegister,
		"logout":       a.cmdLogout,
		"whoami":       a.cmdWhoami,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := a.commands()[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return cmd(ctx, args[1:])
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and checks the number of positional arguments.
func parse(fs *flag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() != positional {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", errUsage, fs.Name(), positional, fs.NArg())
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Data

func (a *app) cmdInit(ctx context.Context, args []string) error {
	if err := parse(newFlags("init"), args, 0); err != nil {
		return err
	}
	data, err := a.sync.Initialize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %d items in %d categories (version %s)\n",
		styleTitle.Render("Wardrobe ready:"), len(data.Items), len(data.Categories), data.Version)
	return nil
}

func (a *app) cmdReset(ctx context.Context, args []string) error {
	if err := parse(newFlags("reset"), args, 0); err != nil {
		return err
	}
	data, err := a.sync.ResetToDefaults(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wardrobe reset to %d sample items.\n", len(data.Items))
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := newFlags("export")
	var outPath string
	fs.StringVar(&outPath, "o", "", "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	data, err := a.sync.Export(ctx)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err := fmt.Fprintln(a.out, string(data))
		return err
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	fmt.Fprintf(a.out, "Backup written to %s\n", outPath)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := newFlags("import")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	if !a.sync.Import(ctx, data) {
		return fmt.Errorf("import failed: %s is not a valid backup", fs.Arg(0))
	}
	fmt.Fprintln(a.out, "Backup restored.")
	return nil
}

func (a *app) cmdClear(ctx context.Context, args []string) error {
	if err := parse(newFlags("clear"), args, 0); err != nil {
		return err
	}
	a.sync.ClearAll(ctx)
	fmt.Fprintln(a.out, "All data cleared.")
	return nil
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	if err := parse(newFlags("stats"), args, 0); err != nil {
		return err
	}
	ds := a.sync.Stats(ctx)
	ws := query.ComputeStats(a.sync.LoadItems(ctx), a.now())
	printStats(a.out, ds, ws)
	return nil
}

// Items

type itemFlags struct {
	name, brand, color, season, size, image, purchased, notes, tags string
	price                                                           float64
	rating                                                          int
}

func (f *itemFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "")
	fs.StringVar(&f.brand, "brand", "", "")
	fs.StringVar(&f.color, "color", "", "")
	fs.StringVar(&f.season, "season", "", "")
	fs.StringVar(&f.size, "size", "", "")
	fs.StringVar(&f.image, "image", "", "")
	fs.StringVar(&f.purchased, "purchased", "", "")
	fs.StringVar(&f.notes, "notes", "", "")
	fs.StringVar(&f.tags, "tags", "", "")
	fs.Float64Var(&f.price, "price", 0, "")
	fs.IntVar(&f.rating, "rating", 0, "")
}

// set returns the names of the flags given on the command line.
func set(fs *flag.FlagSet) map[string]bool {
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	return given
}

func (a *app) cmdItems(ctx context.Context, args []string) error {
	fs := newFlags("items")
	var c query.Criteria
	var categories, seasons string
	fs.StringVar(&c.Search, "q", "", "")
	fs.StringVar(&categories, "category", "", "")
	fs.StringVar(&seasons, "season", "", "")
	fs.BoolVar(&c.FavoritesOnly, "fav", false, "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	c.Categories = splitList(categories)
	for _, s := range splitList(seasons) {
		c.Seasons = append(c.Seasons, model.Season(s))
	}

	all, err := a.items.All(ctx)
	if err != nil {
		return err
	}
	printItems(a.out, query.Filter(all, c))
	return nil
}

func (a *app) cmdAddItem(ctx context.Context, args []string) error {
	fs := newFlags("add-item")
	var category string
	var f itemFlags
	fs.StringVar(&category, "category", "", "")
	f.register(fs)
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	given := set(fs)

	in := model.ItemInput{
		Name:         f.name,
		Brand:        f.brand,
		Color:        f.color,
		Season:       model.Season(f.season),
		Size:         f.size,
		ImageURL:     f.image,
		PurchaseDate: f.purchased,
		Notes:        f.notes,
		Tags:         splitList(f.tags),
	}
	if given["price"] {
		in.Price = &f.price
	}
	if given["rating"] {
		in.Rating = &f.rating
	}

	item, err := a.items.Create(ctx, category, in)
	if err != nil {
		return err
	}
	a.sync.Touch(ctx)
	fmt.Fprintf(a.out, "Added %s (%s)\n", styleTitle.Render(item.Name), item.ID)
	return nil
}

func (a *app) cmdEditItem(ctx context.Context, args []string) error {
	fs := newFlags("edit-item")
	var category, id, moveTo string
	var f itemFlags
	fs.StringVar(&category, "category", "", "")
	fs.StringVar(&id, "id", "", "")
	fs.StringVar(&moveTo, "category-to", "", "")
	f.register(fs)
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	given := set(fs)

	var p model.ItemPatch
	strs := map[string]**string{
		"name": &p.Name, "brand": &p.Brand, "color": &p.Color, "size": &p.Size,
		"image": &p.ImageURL, "purchased": &p.PurchaseDate, "notes": &p.Notes,
	}
	vals := map[string]*string{
		"name": &f.name, "brand": &f.brand, "color": &f.color, "size": &f.size,
		"image": &f.image, "purchased": &f.purchased, "notes": &f.notes,
	}
	for name, dst := range strs {
		if given[name] {
			*dst = vals[name]
		}
	}
	if given["category-to"] {
		p.Category = &moveTo
	}
	if given["season"] {
		s := model.Season(f.season)
		p.Season = &s
	}
	if given["tags"] {
		tags := splitList(f.tags)
		p.Tags = &tags
	}
	if given["price"] {
		p.Price = &f.price
	}
	if given["rating"] {
		p.Rating = &f.rating
	}

	item, err := a.items.Update(ctx, category, id, p)
	if err != nil {
		return err
	}
	a.sync.Touch(ctx)
	fmt.Fprintf(a.out, "Updated %s\n", styleTitle.Render(item.Name))
	return nil
}

// itemRef parses the -category and -id flags shared by single-item commands.
func itemRef(name string, args []string) (category, id string, err error) {
	fs := newFlags(name)
	fs.StringVar(&category, "category", "", "")
	fs.StringVar(&id, "id", "", "")
	if err := parse(fs, args, 0); err != nil {
		return "", "", err
	}
	if id == "" {
		return "", "", fmt.Errorf("%w: %s requires -id", errUsage, name)
	}
	return category, id, nil
}

func (a *app) cmdRmItem(ctx context.Context, args []string) error {
	category, id, err := itemRef("rm-item", args)
	if err != nil {
		return err
	}
	if err := a.items.Delete(ctx, category, id); err != nil {
		return err
	}
	a.sync.Touch(ctx)
	fmt.Fprintf(a.out, "Removed item %s\n", id)
	return nil
}

func (a *app) cmdFav(ctx context.Context, args []string) error {
	category, id, err := itemRef("fav", args)
	if err != nil {
		return err
	}
	item, err := a.items.ToggleFavorite(ctx, category, id)
	if err != nil {
		return err
	}
	a.sync.Touch(ctx)
	state := "no longer a favorite"
	if item.IsFavorite {
		state = "marked as favorite"
	}
	fmt.Fprintf(a.out, "%s %s\n", styleTitle.Render(item.Name), state)
	return nil
}

func (a *app) cmdWear(ctx context.Context, args []string) error {
	category, id, err := itemRef("wear", args)
	if err != nil {
		return err
	}
	item, err := a.items.MarkWorn(ctx, category, id, a.now())
	if err != nil {
		return err
	}
	a.sync.Touch(ctx)
	fmt.Fprintf(a.out, "%s worn %d times\n", styleTitle.Render(item.Name), item.WearCount)
	return nil
}

// Categories

func (a *app) cmdCategories(ctx context.Context, args []string) error {
	if err := parse(newFlags("categories"), args, 0); err != nil {
		return err
	}
	names, err := a.categories.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]categoryRow, 0, len(names))
	for _, name := range names {
		items, err := a.items.List(ctx, name)
		if err != nil {
			return err
		}
		image, err := a.categories.ImageFor(ctx, name)
		if err != nil {
			return err
		}
		rows = append(rows, categoryRow{Name: name, Items: len(items), Image: image})
	}
	printCategories(a.out, rows)
	return nil
}

func (a *app) cmdAddCategory(ctx context.Context, args []string) error {
	fs := newFlags("add-category")
	var image string
	fs.StringVar(&image, "image", "", "")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if err := a.sync.AddCategory(ctx, fs.Arg(0), image); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added category %s\n", styleTitle.Render(fs.Arg(0)))
	return nil
}

func (a *app) cmdRmCategory(ctx context.Context, args []string) error {
	fs := newFlags("rm-category")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	removed, err := a.sync.DeleteCategory(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed category %s and %d item(s)\n", styleTitle.Render(fs.Arg(0)), removed)
	return nil
}

// Outfits

func (a *app) cmdOutfits(ctx context.Context, args []string) error {
	if err := parse(newFlags("outfits"), args, 0); err != nil {
		return err
	}
	outfits, err := a.outfits.List(ctx)
	if err != nil {
		return err
	}
	items, err := a.items.All(ctx)
	if err != nil {
		return err
	}
	printOutfits(a.out, outfits, items)
	return nil
}

func (a *app) cmdAddOutfit(ctx context.Context, args []string) error {
	fs := newFlags("add-outfit")
	var in model.OutfitInput
	var items string
	var rating int
	fs.StringVar(&in.Name, "name", "", "")
	fs.StringVar(&items, "items", "", "")
	fs.StringVar(&in.Occasion, "occasion", "", "")
	fs.StringVar(&in.ImageURL, "image", "", "")
	fs.IntVar(&rating, "rating", 0, "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	in.Items = splitList(items)
	if set(fs)["rating"] {
		in.Rating = &rating
	}

	outfit, err := a.outfits.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added outfit %s (%s)\n", styleTitle.Render(outfit.Name), outfit.ID)
	return nil
}

func (a *app) cmdWearOutfit(ctx context.Context, args []string) error {
	fs := newFlags("wear-outfit")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	outfit, err := a.outfits.MarkWorn(ctx, fs.Arg(0), a.now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s last worn %s\n", styleTitle.Render(outfit.Name), outfit.LastWorn)
	return nil
}

func (a *app) cmdRmOutfit(ctx context.Context, args []string) error {
	fs := newFlags("rm-outfit")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if err := a.outfits.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed outfit %s\n", fs.Arg(0))
	return nil
}

// Images

func (a *app) cmdUpload(ctx context.Context, args []string) error {
	fs := newFlags("upload")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	up, err := a.images.Upload(ctx, f.Name(), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s (%d bytes)\n", up.Message+":", styleTitle.Render(up.Filename), up.Size)
	return nil
}

func (a *app) cmdImages(ctx context.Context, args []string) error {
	if err := parse(newFlags("images"), args, 0); err != nil {
		return err
	}
	names, err := a.images.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, styleDim.Render("No uploaded images."))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) cmdRmImage(ctx context.Context, args []string) error {
	fs := newFlags("rm-image")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if err := a.images.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed image %s\n", fs.Arg(0))
	return nil
}

// Session

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := newFlags("login")
	var email, password string
	fs.StringVar(&email, "email", "", "")
	fs.StringVar(&password, "password", "", "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	tok, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n%s %s\n", styleTitle.Render(email), tok.TokenType, tok.AccessToken)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := newFlags("register")
	var email, username, password string
	fs.StringVar(&email, "email", "", "")
	fs.StringVar(&username, "username", "", "")
	fs.StringVar(&password, "password", "", "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	tok, err := a.auth.Register(ctx, email, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s\n%s %s\n", styleTitle.Render(email), tok.TokenType, tok.AccessToken)
	return nil
}

func (a *app) cmdLogout(ctx context.Context, args []string) error {
	if err := parse(newFlags("logout"), args, 0); err != nil {
		return err
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	fs := newFlags("whoami")
	var token string
	fs.StringVar(&token, "token", "", "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	if token != "" {
		claims, err := a.auth.Verify(ctx, token)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s>, token expires %s\n",
			claims.Username, claims.Email, claims.ExpiresAt.Time.Format(time.DateTime))
		return nil
	}

	u, err := a.auth.Current(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintln(a.out, styleDim.Render("Not signed in."))
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", styleTitle.Render(u.Username), u.Email)
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
