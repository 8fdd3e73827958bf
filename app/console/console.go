// Package console runs the interactive dispatch shell over any reader and
// writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/trainyard/app"
	"github.com/kilianp07/trainyard/core/ledger"
	"github.com/kilianp07/trainyard/core/model"
)

// ExitKey ends the session when entered at the continue prompt.
const ExitKey = "E"

// Dispatcher runs dispatch cycles and exposes the ledger.
type Dispatcher interface {
	Dispatch(ctx context.Context, route model.Route) (app.Result, error)
	Trains(f ledger.Filter) []model.Train
}

// Console is the interactive shell.
type Console struct {
	d   Dispatcher
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Console reading commands from in and printing to out.
func New(d Dispatcher, in io.Reader, out io.Writer) *Console {
	return &Console{d: d, in: bufio.NewScanner(in), out: out}
}

var errEOF = errors.New("end of input")

// Run loops over dispatch cycles until the operator presses the exit key,
// input ends or ctx is canceled. Only non-route dispatch errors are returned.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		c.printLedger()

		route, err := c.readRoute()
		if err != nil {
			return c.endOfInput(err)
		}
		res, err := c.d.Dispatch(ctx, route)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		c.printSales(res.Sales)
		fmt.Fprintln(c.out, "A train was composed from the tickets sold:")
		printTrain(c.out, res.Train)

		fmt.Fprintf(c.out, "\nPress %s then Enter to exit.\nPress Enter to dispatch the train and move on to the next one.\n", ExitKey)
		line, err := c.readLine()
		if err != nil {
			return c.endOfInput(err)
		}
		if strings.EqualFold(strings.TrimSpace(line), ExitKey) {
			return nil
		}
	}
}

func (c *Console) endOfInput(err error) error {
	if errors.Is(err, errEOF) {
		fmt.Fprintln(c.out)
		return nil
	}
	return err
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return c.in.Text(), nil
}

// readRoute prompts until the operator enters two distinct stations.
func (c *Console) readRoute() (model.Route, error) {
	for {
		fmt.Fprintln(c.out, "Enter the departure station:")
		dep, err := c.readLine()
		if err != nil {
			return model.Route{}, err
		}
		fmt.Fprintln(c.out, "Enter the arrival station:")
		arr, err := c.readLine()
		if err != nil {
			return model.Route{}, err
		}
		route, err := model.NewRoute(dep, arr)
		if err == nil {
			return route, nil
		}
		if !model.IsRecoverable(err) {
			return model.Route{}, err
		}
		fmt.Fprintf(c.out, "%v. Try again!\n", err)
	}
}

func (c *Console) printLedger() {
	trains := c.d.Trains(ledger.Filter{})
	if len(trains) == 0 {
		fmt.Fprintln(c.out, "No trains dispatched yet")
		fmt.Fprintln(c.out)
		return
	}
	fmt.Fprintln(c.out, "Dispatched trains:")
	for _, t := range trains {
		printTrain(c.out, t)
	}
	fmt.Fprintln(c.out)
}

func (c *Console) printSales(s model.TicketSales) {
	fmt.Fprintln(c.out, "Tickets sold for this route:")
	for _, cs := range s.Entries() {
		fmt.Fprintf(c.out, "%s - %d\n", cs.Class, cs.Sold)
	}
}

func printTrain(w io.Writer, t model.Train) {
	fmt.Fprintf(w, "Route: %s\n", t.Route)
	fmt.Fprint(w, "Wagons in train:")
	for i, wg := range t.Wagons() {
		fmt.Fprintf(w, " %d.%s", i+1, wg.Class)
	}
	fmt.Fprintln(w)
}
