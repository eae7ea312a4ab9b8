package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultInfoSelectors locate the container whose first two paragraphs are
// the hotel name and address.
var DefaultInfoSelectors = []string{".hotel-info", "[data-hotel-info]"}

var (
	phonePattern = regexp.MustCompile(`\+\d{1,3}(?:[\s.\-]?\(?\d{2,5}\)?){2,5}`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// PhoneText finds an international phone number (leading +, country code,
// grouped digits) anywhere in the visible text.
func PhoneText() Strategy {
	return Strategy{
		Name: "phone-text",
		Find: func(doc *goquery.Document) Outcome {
			if m := phonePattern.FindString(visibleText(doc)); m != "" {
				return found(strings.TrimSpace(m))
			}
			return notFound
		},
	}
}

// PhoneLink reads the first telephone link. The link text is preferred;
// an empty text falls back to the number in the href.
func PhoneLink() Strategy {
	return Strategy{
		Name: "phone-link",
		Find: func(doc *goquery.Document) Outcome {
			a := doc.Find(`a[href^="tel:"]`).First()
			if a.Length() == 0 {
				return notFound
			}
			if text := collapseSpace(a.Text()); text != "" {
				return found(text)
			}
			href, _ := a.Attr("href")
			if num := strings.TrimSpace(strings.TrimPrefix(href, "tel:")); num != "" {
				return found(num)
			}
			return notFound
		},
	}
}

// DefaultEmailSelectors are the dedicated email containers tried before the
// mail link and the full-text scan.
var DefaultEmailSelectors = []string{".email", ".contact-email", `[data-testid="email"]`}

// EmailSelector looks for an email address inside the first element
// matching sel.
func EmailSelector(sel string) Strategy {
	return Strategy{
		Name: "email-selector:" + sel,
		Find: func(doc *goquery.Document) Outcome {
			s := doc.Find(sel).First()
			if s.Length() == 0 {
				return notFound
			}
			if m := emailPattern.FindString(s.Text()); m != "" {
				return found(m)
			}
			return notFound
		},
	}
}

// EmailLink reads the address of the first mailto link.
func EmailLink() Strategy {
	return Strategy{
		Name: "email-link",
		Find: func(doc *goquery.Document) Outcome {
			href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href")
			if !ok {
				return notFound
			}
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			if dec, err := url.PathUnescape(addr); err == nil {
				addr = dec
			}
			if m := emailPattern.FindString(addr); m != "" {
				return found(m)
			}
			return notFound
		},
	}
}

// EmailText scans the visible text for anything shaped like an email address.
func EmailText() Strategy {
	return Strategy{
		Name: "email-text",
		Find: func(doc *goquery.Document) Outcome {
			if m := emailPattern.FindString(visibleText(doc)); m != "" {
				return found(m)
			}
			return notFound
		},
	}
}

// DefaultEmailStrategies returns the email chain: dedicated containers, the
// test hook, the mail link, then a full-text scan.
func DefaultEmailStrategies() []Strategy {
	var out []Strategy
	for _, sel := range DefaultEmailSelectors {
		out = append(out, EmailSelector(sel))
	}
	return append(out, EmailLink(), EmailText())
}

// nameAndAddress reads the first two non-empty paragraphs of the first
// info container found.
func nameAndAddress(doc *goquery.Document, selectors []string) (name, address *string) {
	for _, sel := range selectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}

		var paras []string
		container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if t := collapseSpace(p.Text()); t != "" {
				paras = append(paras, t)
			}
			return len(paras) < 2
		})
		if len(paras) > 0 {
			name = &paras[0]
		}
		if len(paras) > 1 {
			address = &paras[1]
		}
		return name, address
	}
	return nil, nil
}
