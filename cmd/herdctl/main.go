package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/docopt/docopt-go"

	"livestock-client/internal/app"
	"livestock-client/internal/config"
	"livestock-client/internal/session"
)

const version = "0.1.0"

const usage = `Herd control: cliente de terminal del backend de ganadería.

Usage:
    herdctl login --username=<username> --password=<password> [--config=<path>]
    herdctl logout [--config=<path>]
    herdctl whoami [--config=<path>]
    herdctl animals [--species=<species>] [--health=<status>] [--config=<path>]
    herdctl animal <id> [--config=<path>]
    herdctl owners [--config=<path>]
    herdctl events [--type=<type>] [--config=<path>]
    herdctl inventory [--low-stock] [--config=<path>]
    herdctl dashboard [--config=<path>]
    herdctl -h | --help
    herdctl --version

Options:
    -h --help               Show this screen.
    --version               Show version.
    --config=<path>         Config file [default: ].
    --username=<username>   Backend username.
    --password=<password>   Backend password.
    --species=<species>     Filter animals by species.
    --health=<status>       Filter animals by health status.
    --type=<type>           Filter events by type.
    --low-stock             Only items under reorder level.
`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfgPath, _ := opts.String("--config")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	a, err := app.New(cfg, app.Options{})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	ctx := context.Background()

	switch {
	case has(opts, "login"):
		username, _ := opts.String("--username")
		password, _ := opts.String("--password")
		user, err := a.Session.Login(ctx, session.Credentials{Username: username, Password: password})
		if err != nil {
			fail("login failed", err)
		}
		fmt.Printf("logged in as %s\n", user.Username)

	case has(opts, "logout"):
		a.Session.Logout(ctx)
		fmt.Println("logged out")

	case has(opts, "whoami"):
		user, err := a.Session.GetCurrentUser(ctx)
		if err != nil {
			fail("not authenticated", err)
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)

	case has(opts, "animals"):
		filters := map[string]string{}
		if v, _ := opts.String("--species"); v != "" {
			filters["species"] = v
		}
		if v, _ := opts.String("--health"); v != "" {
			filters["health_status"] = v
		}
		items, err := a.Animals.List(ctx, filters)
		if err != nil {
			fail("list animals failed", err)
		}
		tw := newTable()
		fmt.Fprintln(tw, "ID\tTAG\tSPECIES\tBREED\tSTATUS\tOWNER")
		for _, an := range items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				an.ID, an.TagNumber, an.Species, an.Breed, an.HealthStatus, an.OwnerName)
		}
		tw.Flush()

	case has(opts, "animal"):
		raw, _ := opts.String("<id>")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("invalid id %q", raw)
		}
		an, err := a.Animals.GetByID(ctx, id)
		if err != nil {
			fail("get animal failed", err)
		}
		fmt.Printf("#%d %s (%s %s) status=%s owner=%s\n",
			an.ID, an.TagNumber, an.Species, an.Breed, an.HealthStatus, an.OwnerName)

	case has(opts, "owners"):
		items, err := a.Owners.List(ctx, nil)
		if err != nil {
			fail("list owners failed", err)
		}
		tw := newTable()
		fmt.Fprintln(tw, "ID\tNAME\tFARM\tANIMALS\tACTIVE")
		for _, o := range items {
			fmt.Fprintf(tw, "%d\t%s %s\t%s\t%d\t%v\n",
				o.ID, o.FirstName, o.LastName, o.FarmName, o.AnimalCount, o.IsActive)
		}
		tw.Flush()

	case has(opts, "events"):
		filters := map[string]string{}
		if v, _ := opts.String("--type"); v != "" {
			filters["event_type"] = v
		}
		items, err := a.Events.List(ctx, filters)
		if err != nil {
			fail("list events failed", err)
		}
		tw := newTable()
		fmt.Fprintln(tw, "ID\tTYPE\tDATE\tANIMAL\tCOST")
		for _, e := range items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\n",
				e.ID, e.EventType, e.Date, e.AnimalTag, e.Cost)
		}
		tw.Flush()

	case has(opts, "inventory"):
		items, err := a.Inventory.List(ctx, nil)
		if err != nil {
			fail("list inventory failed", err)
		}
		onlyLow, _ := opts.Bool("--low-stock")
		tw := newTable()
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQTY\tUNIT\tVALUE\tLOW")
		for _, it := range items {
			if onlyLow && !it.LowStock() {
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\t%.2f\t%v\n",
				it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.Value(), it.LowStock())
		}
		tw.Flush()

	case has(opts, "dashboard"):
		// El dashboard agrega sobre los snapshots: primero hay que poblarlos.
		if _, err := a.Animals.List(ctx, nil); err != nil {
			fail("fetch animals failed", err)
		}
		if _, err := a.Owners.List(ctx, nil); err != nil {
			fail("fetch owners failed", err)
		}
		if _, err := a.Events.List(ctx, nil); err != nil {
			fail("fetch events failed", err)
		}
		if _, err := a.Inventory.List(ctx, nil); err != nil {
			fail("fetch inventory failed", err)
		}

		stats := a.Dashboard()
		fmt.Printf("animals: %d (healthy %d, under treatment %d)\n",
			stats.TotalAnimals, stats.HealthyAnimals, stats.UnderTreatment)
		fmt.Printf("owners: %d  events: %d\n", stats.TotalOwners, stats.TotalEvents)
		fmt.Printf("inventory value: %.2f (%d low stock)\n",
			stats.TotalInventoryValue, stats.LowStockItems)
		fmt.Println("by species:")
		for species, n := range stats.AnimalsBySpecies {
			fmt.Printf("  %-12s %d\n", species, n)
		}
		if len(stats.RecentEvents) > 0 {
			fmt.Println("recent events:")
			for _, e := range stats.RecentEvents {
				fmt.Printf("  %s %s (%s)\n", e.Date, e.EventType, e.AnimalTag)
			}
		}
	}
}

func has(opts docopt.Opts, cmd string) bool {
	v, _ := opts.Bool(cmd)
	return v
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
