package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/service"
)

const rule = "----------------------------------"

var errNumeric = errors.New("please enter valid numeric values")

// Run drives the interactive prompt flow and returns the process exit code.
// Location and weather are fetched once, shown as a preview, and reused for
// the final calculation after the room details are entered.
func Run(ctx context.Context, in io.Reader, out io.Writer, svc service.CalculatorServiceInterface) int {
	p := &prompter{scanner: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "Classroom AC Temperature Calculator")
	fmt.Fprintln(out, rule)

	postalCode, err := p.ask("Enter pincode (e.g., 110001): ")
	if err != nil {
		return p.fail(err)
	}
	if err := service.ValidatePostalCode(postalCode); err != nil {
		return p.fail(err)
	}

	cond, err := svc.Lookup(ctx, postalCode)
	if err != nil {
		return p.fail(err)
	}

	fmt.Fprintf(out, "\nLocation: %s\n", cond.Location.Name)
	fmt.Fprintf(out, "Current Temperature: %v°C\n", cond.Weather.Temperature)
	fmt.Fprintf(out, "Current Humidity: %v%%\n", cond.Weather.Humidity)
	fmt.Fprintln(out, rule)

	room, err := p.askRoom()
	if err != nil {
		return p.fail(err)
	}
	if err := service.ValidateInputs(postalCode, room.Occupants, room.Length, room.Width, room.Height); err != nil {
		return p.fail(err)
	}

	result := svc.Compute(cond, room)
	fmt.Fprintf(out, "\nOptimal AC Temperature: %.1f°C\n", result.OptimalTemp)
	return 0
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *prompter) askRoom() (model.Room, error) {
	var room model.Room

	raw, err := p.ask("Enter number of students: ")
	if err != nil {
		return room, err
	}
	if room.Occupants, err = strconv.Atoi(raw); err != nil {
		return room, &service.UnexpectedError{Err: errNumeric}
	}

	for _, dim := range []struct {
		prompt string
		dst    *float64
	}{
		{"Enter room length (meters): ", &room.Length},
		{"Enter room width (meters): ", &room.Width},
		{"Enter room height (meters): ", &room.Height},
	} {
		raw, err := p.ask(dim.prompt)
		if err != nil {
			return room, err
		}
		if *dim.dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return room, &service.UnexpectedError{Err: errNumeric}
		}
	}
	return room, nil
}

func (p *prompter) fail(err error) int {
	config.GetLogger().Debugw("Console flow failed", "error", err)
	fmt.Fprintf(p.out, "\nError: %s\n", message(err))
	return 1
}

// message strips the wrapper text so the user sees the cause.
func message(err error) string {
	var unexpected *service.UnexpectedError
	if errors.As(err, &unexpected) && errors.Is(err, errNumeric) {
		return errNumeric.Error()
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return "input ended before all values were entered"
	}
	return err.Error()
}
