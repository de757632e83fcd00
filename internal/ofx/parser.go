// Package ofx reads OFX/QFX bank statements into expense drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/hunglv/expensive/internal/model"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser turns the debits of an OFX statement into expense inputs.
type Parser struct {
	logger          *slog.Logger
	currency        string
	description     string
	defaultCategory int
}

// Option customizes a Parser.
type Option func(*Parser)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithCurrency sets the currency the statement is expected to be in. A
// statement in another currency is still imported, with a warning.
func WithCurrency(code string) Option {
	return func(p *Parser) { p.currency = strings.ToUpper(code) }
}

// NewParser creates a parser that files every expense under defaultCategory.
func NewParser(defaultCategory int, opts ...Option) *Parser {
	p := &Parser{
		defaultCategory: defaultCategory,
		logger:          slog.Default(),
		description:     "Giao dịch ngân hàng",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes lose the closing bracket of a bare opening tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns one input per debit.
// Credits are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.ExpenseInput, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var inputs []model.ExpenseInput
	var statements, skipped int

	collect := func(account string, curDef ofxgo.CurrSymbol, list *ofxgo.TransactionList) error {
		statements++
		p.checkCurrency(account, curDef)
		if list == nil {
			return nil
		}
		for _, tx := range list.Transactions {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, ok := p.convertTransaction(tx)
			if !ok {
				skipped++
				continue
			}
			inputs = append(inputs, in)
		}
		return nil
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if err := collect(string(stmt.BankAcctFrom.AcctID), stmt.CurDef, stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if err := collect(string(stmt.CCAcctFrom.AcctID), stmt.CurDef, stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}

	p.logger.Info("Parsed OFX file",
		"expenses", len(inputs),
		"skipped", skipped,
		"statements", statements)

	return inputs, nil
}

func (p *Parser) checkCurrency(account string, curDef ofxgo.CurrSymbol) {
	if p.currency == "" {
		return
	}
	if got := curDef.String(); got != "" && got != p.currency {
		p.logger.Warn("Statement currency differs from configured currency",
			"account", account,
			"statement", got,
			"configured", p.currency)
	}
}

// convertTransaction maps a debit to an expense input. Credits and debits
// that round to zero are rejected.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) (model.ExpenseInput, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(4))
	if err != nil || !amount.IsNegative() {
		return model.ExpenseInput{}, false
	}

	whole := amount.Abs().Round(0).IntPart()
	if whole <= 0 {
		return model.ExpenseInput{}, false
	}

	description := extractMerchantName(tx)
	if description == "" {
		description = p.description
	}

	return model.ExpenseInput{
		Date:        model.DateOf(tx.DtPosted.Time),
		Description: description,
		Amount:      whole,
		CategoryID:  p.defaultCategory,
	}, true
}

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"THANH TOAN ",
	"CHUYEN KHOAN ",
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " stamps
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}
