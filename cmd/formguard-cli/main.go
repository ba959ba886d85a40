package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/openapi"
	"github.com/goliatone/go-formguard/pkg/submission"
)

func main() {
	opID := flag.String("operation", "", "operation ID to render")
	output := flag.String("output", "", "output file (stdout if empty)")
	source := flag.String("source", "openapi.yaml", "OpenAPI document path or URL")
	locale := flag.String("locale", "ko", "message locale")
	fill := flag.Bool("fill", false, "fill the form interactively instead of rendering HTML")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}
	if *opID == "" {
		log.Fatal("operation ID is required")
	}

	if *fill {
		if err := fillForm(ctx, src, *opID, *locale, *output); err != nil {
			log.Fatalf("Failed to fill form: %v", err)
		}
		return
	}

	outputHTML, err := formguard.GenerateHTML(ctx, src, *opID, formguard.Options{Locale: *locale})
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, outputHTML, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(outputHTML))
	}
}

func parseSource(raw string) openapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return openapi.SourceFromURL(path)
	}
	return openapi.SourceFromFile(path)
}

// fillForm prompts for every field and applies the submission guard: an
// attempt with blank required fields is rejected as a whole, every failing
// field is reported, and only the failing fields are asked again.
func fillForm(ctx context.Context, src openapi.Source, opID, locale, output string) error {
	forms, err := formguard.LoadForms(ctx, src)
	if err != nil {
		return err
	}
	form, ok := forms[opID]
	if !ok {
		return fmt.Errorf("operation %q not found", opID)
	}

	values := url.Values{}
	pending := form.Fields

	for {
		for _, field := range pending {
			answer, err := promptField(field, values.Get(field.Name))
			if err != nil {
				return err
			}
			values.Set(field.Name, answer)
		}

		result := submission.Validate(form, values, submission.WithLocale(locale))
		if result.Valid {
			break
		}

		fmt.Fprintln(os.Stderr, result.Message)
		pending = pending[:0]
		for _, field := range form.Fields {
			if msgs := result.FieldErrors[field.Name]; len(msgs) > 0 {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field.Name, strings.Join(msgs, "; "))
				pending = append(pending, field)
			}
		}
	}

	payload := make(map[string]string, len(values))
	for name := range values {
		payload[name] = values.Get(name)
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	encoded = append(encoded, '\n')

	if output != "" {
		if err := os.WriteFile(output, encoded, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err = os.Stdout.Write(encoded)
	return err
}

func promptField(field model.Field, current string) (string, error) {
	label := field.Label
	if label == "" {
		label = field.Name
	}

	var prompt survey.Prompt
	switch {
	case len(field.Enum) > 0:
		options := make([]string, 0, len(field.Enum))
		for _, option := range field.Enum {
			options = append(options, fmt.Sprint(option))
		}
		selectPrompt := &survey.Select{Message: label, Options: options}
		if current != "" {
			selectPrompt.Default = current
		}
		prompt = selectPrompt
	case field.Format == "password":
		prompt = &survey.Password{Message: label}
	case field.Format == "textarea":
		prompt = &survey.Multiline{Message: label, Default: current}
	default:
		prompt = &survey.Input{Message: label, Default: current}
	}

	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", fmt.Errorf("prompt %s: %w", field.Name, err)
	}
	return answer, nil
}
