package ledger

import (
	"sort"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Amounts holds the computed monetary bases for one payment
type Amounts struct {
	Gross       decimal.Decimal `json:"gross"`
	Taxable     decimal.Decimal `json:"taxable"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	BaseTaxable decimal.Decimal `json:"base_taxable"`
}

// ComputeAmounts derives the gross and taxable bases for a payment. For a
// third-party payment with an attached expenditure, the taxable figure is
// the expenditure's taxable base uplifted by the matching VAT journal
// type's rate. Staff payments, and payments with no matching VAT rule, are
// taxable at gross.
func ComputeAmounts(payment *Payment, journalTypes []*JournalType) Amounts {
	gross := payment.TotalApprovedAmount

	if payment.Type == PaymentThirdParty && payment.Expenditure != nil {
		base := payment.Expenditure.TaxableBase()
		for _, jt := range journalTypes {
			if jt == nil || !jt.IsVAT || !jt.AppliesTo(payment.Type) {
				continue
			}
			taxable := base.Mul(hundred.Add(jt.Rate)).Div(hundred)
			return Amounts{
				Gross:       gross,
				Taxable:     taxable,
				VATRate:     jt.Rate,
				BaseTaxable: base,
			}
		}
	}

	return Amounts{
		Gross:       gross,
		Taxable:     gross,
		VATRate:     decimal.Zero,
		BaseTaxable: gross,
	}
}

// TransactionGenerator derives debit/credit transactions from a payment and
// a catalog of journal-type rules. Generation is pure over its inputs and
// never fails: unknown selector or rate values fall back to lenient
// defaults so a misconfigured rule degrades rather than blocks posting.
type TransactionGenerator struct {
	logger        *zap.Logger
	legacyBankers bool
}

// TransactionGeneratorOption configures a TransactionGenerator
type TransactionGeneratorOption func(*TransactionGenerator)

// WithLogger attaches a logger for rule diagnostics
func WithLogger(logger *zap.Logger) TransactionGeneratorOption {
	return func(g *TransactionGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithLegacyBankersRounding reproduces the historical bankers-rounding
// behavior: round half up, then floor when the rounded value is odd. Only
// needed for wire compatibility with amounts posted by older systems; the
// default is standard round-half-to-even.
func WithLegacyBankersRounding() TransactionGeneratorOption {
	return func(g *TransactionGenerator) {
		g.legacyBankers = true
	}
}

// NewTransactionGenerator creates a transaction generator
func NewTransactionGenerator(opts ...TransactionGeneratorOption) *TransactionGenerator {
	g := &TransactionGenerator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate evaluates the selected journal types against the payment, in
// ascending precedence order (ties keep catalog order), and returns the
// ordered transaction list with contra entries interleaved after their
// primary entry.
func (g *TransactionGenerator) Generate(
	payment *Payment,
	catalog []*JournalType,
	selectedIDs []uuid.UUID,
) []*Transaction {
	amounts := ComputeAmounts(payment, catalog)

	selected := make(map[uuid.UUID]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	rules := make([]*JournalType, 0, len(selectedIDs))
	for _, jt := range catalog {
		if jt != nil && selected[jt.ID] {
			rules = append(rules, jt)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Precedence < rules[j].Precedence
	})

	var transactions []*Transaction
	for _, jt := range rules {
		amount := g.roundAmount(jt, g.computeAmount(jt, payment, amounts))
		entryType := g.entryTypeFor(jt)

		transactions = append(transactions, g.buildPrimary(payment, jt, entryType, amount))
		if jt.PostingRules.CreateContraEntries {
			transactions = append(transactions, g.buildContra(payment, jt, entryType, amount))
		}
	}
	return transactions
}

// computeAmount resolves the base amount per the rule's selector and applies
// its rate
func (g *TransactionGenerator) computeAmount(jt *JournalType, payment *Payment, amounts Amounts) decimal.Decimal {
	var base decimal.Decimal
	switch jt.BaseSelector {
	case BaseGross:
		base = amounts.Gross
	case BaseTaxable:
		base = amounts.Taxable
	case BaseNonTaxable:
		if payment.Type == PaymentStaff {
			base = amounts.Gross
		} else {
			base = amounts.Gross.Sub(amounts.Taxable)
		}
	case BaseCustom:
		base = jt.FixedAmount
	default:
		g.logger.Warn("unknown base selector, defaulting to gross",
			zap.String("journal_type", jt.Name),
			zap.String("base_selector", jt.BaseSelector.String()))
		base = amounts.Gross
	}

	switch jt.RateType {
	case RatePercent:
		return base.Mul(jt.Rate).Div(hundred)
	case RateFixed:
		return jt.FixedAmount
	default:
		g.logger.Warn("unknown rate type, amount defaults to zero",
			zap.String("journal_type", jt.Name),
			zap.String("rate_type", jt.RateType.String()))
		return decimal.Zero
	}
}

// roundAmount applies the rule's rounding mode to the computed amount
func (g *TransactionGenerator) roundAmount(jt *JournalType, amount decimal.Decimal) decimal.Decimal {
	switch jt.Rounding {
	case RoundingHalfUp:
		return amount.Round(0)
	case RoundingBankers:
		if !g.legacyBankers {
			return amount.RoundBank(0)
		}
		rounded := amount.Round(0)
		if !rounded.Mod(two).IsZero() {
			return amount.Floor()
		}
		return rounded
	}
	return amount
}

// entryTypeFor determines the debit/credit side of the primary entry
func (g *TransactionGenerator) entryTypeFor(jt *JournalType) EntryType {
	switch jt.Kind {
	case KindDeduct:
		return EntryDebit
	case KindAdd:
		return EntryCredit
	}
	// informational rules carry the side on the rule itself; "both" posts
	// as debit
	if jt.Type == EntryCredit {
		return EntryCredit
	}
	return EntryDebit
}

func (g *TransactionGenerator) buildPrimary(payment *Payment, jt *JournalType, entryType EntryType, amount decimal.Decimal) *Transaction {
	beneficiaryID := payment.ResourceID
	beneficiaryType := payment.ResourceType
	if jt.Benefactor == BenefactorEntity {
		beneficiaryID = jt.EntityID
		beneficiaryType = "Entity"
	}

	txn := &Transaction{
		BaseEntity:       shared.NewBaseEntity(),
		JournalTypeID:    jt.ID,
		PaymentID:        payment.ID,
		ChartOfAccountID: jt.ChartOfAccountID,
		LedgerID:         jt.LedgerID,
		Type:             entryType,
		Amount:           amount,
		Narration:        jt.Name + " - " + payment.Narration,
		BeneficiaryID:    beneficiaryID,
		BeneficiaryType:  beneficiaryType,
		PaymentMethod:    payment.EffectivePaymentMethod(),
		Currency:         payment.EffectiveCurrency(),
		TrailBalance:     SideFor(entryType),
		Flag:             jt.Flag,
	}
	setSplitAmounts(txn)
	return txn
}

// buildContra emits the offsetting entry: opposite side, same amount, the
// rule's entity as beneficiary, and the payment's own method and currency
// rather than the expenditure's
func (g *TransactionGenerator) buildContra(payment *Payment, jt *JournalType, entryType EntryType, amount decimal.Decimal) *Transaction {
	contraType := entryType.Opposite()

	txn := &Transaction{
		BaseEntity:       shared.NewBaseEntity(),
		JournalTypeID:    jt.ID,
		PaymentID:        payment.ID,
		ChartOfAccountID: jt.ChartOfAccountID,
		LedgerID:         jt.LedgerID,
		Type:             contraType,
		Amount:           amount,
		Narration:        "Contra - " + jt.Name + " - " + payment.Narration,
		BeneficiaryID:    jt.EntityID,
		BeneficiaryType:  "entity",
		PaymentMethod:    payment.EffectivePaymentMethod(),
		Currency:         payment.OwnCurrency(),
		TrailBalance:     SideFor(contraType),
		IsContra:         true,
		Flag:             jt.Flag,
	}
	setSplitAmounts(txn)
	return txn
}

// setSplitAmounts populates exactly one of the debit/credit columns from
// the entry side
func setSplitAmounts(txn *Transaction) {
	if txn.Type == EntryDebit {
		txn.DebitAmount = decimal.NewNullDecimal(txn.Amount)
	} else {
		txn.CreditAmount = decimal.NewNullDecimal(txn.Amount)
	}
}
