// Package console drives the interactive fiscal code flow: it prompts for each
// field until the answer is valid, shows a summary to confirm, then generates
// the code.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/pkg/domain"
	dErrors "fiscalcode/pkg/domain-errors"
)

// Exit statuses of the console program.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitUnknownMunicipality = 2
)

// Generator computes the fiscal code of a validated person.
type Generator interface {
	Generate(ctx context.Context, p domain.Person) (fiscalcode.FiscalCode, error)
}

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	in        *bufio.Scanner
	out       io.Writer
	generator Generator
}

// New constructs a Prompter.
func New(in io.Reader, out io.Writer, generator Generator) *Prompter {
	return &Prompter{
		in:        bufio.NewScanner(in),
		out:       out,
		generator: generator,
	}
}

// Run executes the whole flow and returns the generated code. Input running
// out before the flow completes is an error.
func (p *Prompter) Run(ctx context.Context) (fiscalcode.FiscalCode, error) {
	p.printf("\n--- FISCAL CODE CALCULATOR ---\n" +
		"Answer the prompts below to compute the fiscal code of a person.\n" +
		"NOTE: only people born in Italy are supported.\n\n")

	var person domain.Person
	for {
		p.printf("Enter the details of the person:\n")
		var err error
		person, err = p.askPerson()
		if err != nil {
			return "", err
		}
		p.printSummary(person)

		ok, err := p.askConfirm()
		if err != nil {
			return "", err
		}
		if ok {
			break
		}
	}

	code, err := p.generator.Generate(ctx, person)
	if err != nil {
		if municipality.IsNotFound(err) {
			p.printf("FATAL ERROR. The place of birth %q is not in the registry.\n", person.Municipality)
		}
		return "", err
	}
	p.printf("\nFiscal code generated:\nFiscal code: %s\n", code)
	return code, nil
}

// ExitCode maps the result of Run to the program's exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case municipality.IsNotFound(err):
		return ExitUnknownMunicipality
	default:
		return ExitFailure
	}
}

func (p *Prompter) askPerson() (domain.Person, error) {
	given, err := ask(p, "Given name: ", domain.ParseGivenName)
	if err != nil {
		return domain.Person{}, err
	}
	family, err := ask(p, "Family name: ", domain.ParseFamilyName)
	if err != nil {
		return domain.Person{}, err
	}
	sex, err := ask(p, "Sex:\n\tM - Male\n\tF - Female\nChoice: ", domain.ParseSex)
	if err != nil {
		return domain.Person{}, err
	}
	birth, err := p.askBirthDate()
	if err != nil {
		return domain.Person{}, err
	}
	place, err := ask(p, "Place of birth: ", domain.ParseMunicipalityName)
	if err != nil {
		return domain.Person{}, err
	}
	return domain.Person{
		GivenName:    given,
		FamilyName:   family,
		Sex:          sex,
		BirthDate:    birth,
		Municipality: place,
	}, nil
}

// askBirthDate asks year, month and day separately so the day prompt can
// state the length of the chosen month.
func (p *Prompter) askBirthDate() (fiscalcode.BirthDate, error) {
	year, err := ask(p, fmt.Sprintf("Year of birth (min %d): ", domain.MinBirthYear), func(s string) (int, error) {
		y, err := atoi(s)
		if err != nil {
			return 0, err
		}
		if _, err := domain.NewBirthDate(y, 1, 1); err != nil {
			return 0, err
		}
		return y, nil
	})
	if err != nil {
		return fiscalcode.BirthDate{}, err
	}

	month, err := ask(p, "Month of birth (1 to 12): ", func(s string) (int, error) {
		m, err := atoi(s)
		if err != nil {
			return 0, err
		}
		if _, err := domain.NewBirthDate(year, m, 1); err != nil {
			return 0, err
		}
		return m, nil
	})
	if err != nil {
		return fiscalcode.BirthDate{}, err
	}

	days := domain.DaysInMonth(year, month)
	return ask(p, fmt.Sprintf("Day of birth (1 to %d): ", days), func(s string) (fiscalcode.BirthDate, error) {
		d, err := atoi(s)
		if err != nil {
			return fiscalcode.BirthDate{}, err
		}
		return domain.NewBirthDate(year, month, d)
	})
}

func (p *Prompter) askConfirm() (bool, error) {
	return ask(p, "Are these details correct?\n\t1 - Yes\n\t0 - No\nChoice: ", func(s string) (bool, error) {
		switch s {
		case "1":
			return true, nil
		case "0":
			return false, nil
		default:
			return false, dErrors.New(dErrors.CodeInvalidInput, "choice must be 1 or 0")
		}
	})
}

func (p *Prompter) printSummary(person domain.Person) {
	p.printf("\n--- SUMMARY ---\n"+
		"\tGiven name: %s\n"+
		"\tFamily name: %s\n"+
		"\tSex: %s\n"+
		"\tDate of birth: %d/%d/%d\n"+
		"\tPlace of birth: %s\n",
		person.GivenName, person.FamilyName, person.Sex,
		person.BirthDate.Day, person.BirthDate.Month, person.BirthDate.Year,
		person.Municipality,
	)
}

// ask repeats prompt until parse accepts the trimmed answer.
func ask[T any](p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := p.readLine(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		p.printf("ERROR. %s\n", message(err))
	}
}

func (p *Prompter) readLine(prompt string) (string, error) {
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", fmt.Errorf("read input: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "enter a whole number")
	}
	return n, nil
}

func message(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
