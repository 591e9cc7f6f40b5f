package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dnsscience/dnswalker/internal/cache"
	"github.com/dnsscience/dnswalker/internal/eventbus"
	"github.com/dnsscience/dnswalker/internal/hints"
	"github.com/dnsscience/dnswalker/internal/resolver"
	"github.com/dnsscience/dnswalker/internal/reverse"
	"github.com/dnsscience/dnswalker/internal/transport"
	"github.com/dnsscience/dnswalker/internal/wire"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file (optional)")
	hintsFlag  = flag.String("hints", "", "Path to the root hints file (overrides config)")
	verbose    = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║                   dnswalker - iterative resolver              ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if *hintsFlag != "" {
		cfg.HintsFile = *hintsFlag
	}

	c := cache.New()
	roots, err := hints.Load(cfg.HintsFile, c)
	if err != nil {
		log.WithError(err).Fatalf("failed to load root hints from %s", cfg.HintsFile)
	}
	log.WithFields(logrus.Fields{
		"v4_roots": len(roots.V4),
		"v6_roots": len(roots.V6),
	}).Info("root hints loaded")

	client := transport.NewClient(cfg.QueryTimeout, cfg.RateQPS, cfg.RateBurst)
	bus := eventbus.New(16)
	res := resolver.New(c, roots, client, bus, cfg.ResolverCfg)
	stats := newStatsCollector(bus)

	fmt.Println("Configuration:")
	fmt.Printf("  Hints file:     %s\n", cfg.HintsFile)
	fmt.Printf("  Query timeout:  %s\n", cfg.QueryTimeout)
	fmt.Printf("  Max iterations: %d\n", cfg.ResolverCfg.MaxIterations)
	fmt.Println()

	runMenu(res, log)

	stats.Stop()
	fmt.Printf("\nqueries: %d  referrals: %d  cache updates: %d\n", stats.queries, stats.referrals, stats.cacheUpdates)
}

func runMenu(res *resolver.Resolver, log *logrus.Logger) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("1) Forward lookup (A)")
		fmt.Println("2) Reverse lookup (IPv4)")
		fmt.Println("3) Reverse lookup (IPv6)")
		fmt.Println("4) Custom lookup (name + type)")
		fmt.Println("5) Exit")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		choice := strings.TrimSpace(line)

		switch choice {
		case "1":
			name := prompt(reader, "Name: ")
			printResult(res.RecursiveQuery(context.Background(), name, wire.TypeA))
		case "2":
			ip := prompt(reader, "IPv4 address: ")
			lookupReverse(res, ip)
		case "3":
			ip := prompt(reader, "IPv6 address: ")
			lookupReverse(res, ip)
		case "4":
			name := prompt(reader, "Name: ")
			typeName := prompt(reader, "Type (A, NS, CNAME, SOA, PTR, AAAA): ")
			printResult(res.RecursiveQueryByTypeName(context.Background(), name, typeName))
		case "5", "":
			return
		default:
			fmt.Println("unrecognized option")
		}
		fmt.Println()
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func lookupReverse(res *resolver.Resolver, literal string) {
	name, err := reverse.Name(literal)
	if err != nil {
		fmt.Printf("invalid address: %v\n", err)
		return
	}
	printResult(res.RecursiveQuery(context.Background(), name, wire.TypePTR))
}

func printResult(msg *wire.Message, err error) {
	if err != nil {
		fmt.Printf("lookup failed: %v\n", err)
		return
	}
	if msg.Header.Rcode != wire.RcodeNoError {
		fmt.Printf("response: %s\n", msg.Header.Rcode)
		return
	}
	if len(msg.Answer) == 0 {
		fmt.Println("no answer returned")
		return
	}
	for _, rr := range msg.Answer {
		fmt.Printf("  %s %s %s %d %s\n", rr.Name, rr.Type, rr.Class, rr.TTL, rr.RData)
	}
}
