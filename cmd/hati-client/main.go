package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"hati/internal/book"
	hatiNet "hati/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the depth server")
	action := flag.String("action", "top", "Action to perform: ['top', 'stats', 'sim']")
	symbol := flag.String("symbol", "BTCUSDT", "Symbol to query")

	// Simulation parameters
	sideStr := flag.String("side", "buy", "Simulated order side: 'buy' or 'sell'")
	qty := flag.Float64("qty", 1.0, "Simulated order quantity")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	side := book.Buy
	if strings.ToLower(*sideStr) == "sell" {
		side = book.Sell
	}

	var request []byte
	switch strings.ToLower(*action) {
	case "top":
		request = hatiNet.EncodeQuery(hatiNet.TopOfBook, *symbol)
	case "stats":
		request = hatiNet.EncodeQuery(hatiNet.WeightedStats, *symbol)
	case "sim":
		request = hatiNet.EncodeSimulate(side, *qty, *symbol)
	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	if _, err := conn.Write(request); err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		log.Fatalf("Connection lost: %v", err)
	}
	report, err := hatiNet.ParseReport(buf[:n])
	if err != nil {
		log.Fatalf("Malformed report: %v", err)
	}
	printReport(*symbol, report)
}

func printReport(symbol string, r hatiNet.Report) {
	switch r.MessageType {
	case hatiNet.TopOfBookReport:
		if r.Flags&hatiNet.FlagBid != 0 {
			fmt.Printf("%s BID %.8g x %.8g\n", symbol,
				r.Values[hatiNet.SlotBidPrice], r.Values[hatiNet.SlotBidQuantity])
		} else {
			fmt.Printf("%s BID <empty>\n", symbol)
		}
		if r.Flags&hatiNet.FlagAsk != 0 {
			fmt.Printf("%s ASK %.8g x %.8g\n", symbol,
				r.Values[hatiNet.SlotAskPrice], r.Values[hatiNet.SlotAskQuantity])
		} else {
			fmt.Printf("%s ASK <empty>\n", symbol)
		}

	case hatiNet.WeightedStatsReport:
		if r.Flags&hatiNet.FlagMid != 0 {
			fmt.Printf("%s WEIGHTED_MID %.8g\n", symbol, r.Values[hatiNet.SlotMid])
		}
		if r.Flags&hatiNet.FlagWeightedBid != 0 {
			fmt.Printf("%s WEIGHTED_BID %.8g\n", symbol, r.Values[hatiNet.SlotWeightedBid])
		}
		if r.Flags&hatiNet.FlagWeightedAsk != 0 {
			fmt.Printf("%s WEIGHTED_ASK %.8g\n", symbol, r.Values[hatiNet.SlotWeightedAsk])
		}
		fmt.Printf("%s DEPTH bid=%.8g ask=%.8g\n", symbol,
			r.Values[hatiNet.SlotBidTotal], r.Values[hatiNet.SlotAskTotal])

	case hatiNet.SimulationReport:
		if r.Flags&hatiNet.FlagFilled == 0 {
			fmt.Printf("%s SIM <insufficient liquidity>\n", symbol)
			return
		}
		fmt.Printf("%s SIM avg=%.8g worst=%.8g\n", symbol,
			r.Values[hatiNet.SlotAvgPrice], r.Values[hatiNet.SlotWorstPrice])

	case hatiNet.ErrorReport:
		fmt.Printf("[SERVER ERROR] %s\n", r.Err)
		os.Exit(1)
	}
}
