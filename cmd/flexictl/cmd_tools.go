package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/documents"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/installments"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/serials"
)

func newSerialsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "serials <product-code>",
		Short: "Preview serial numbers for a product code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			for _, sn := range serials.NewGenerator().GenerateN(code, count) {
				fmt.Fprintln(cmd.OutOrStdout(), sn)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of serials")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	var (
		price, down, rate string
		months            int
		start             string
		asJSON            bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a flat-rate installment plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := installments.Request{Months: months}
			var err error
			if req.Price, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("--price: %w", err)
			}
			if req.DownPayment, err = decimal.NewFromString(down); err != nil {
				return fmt.Errorf("--down: %w", err)
			}
			if req.InterestRate, err = decimal.NewFromString(rate); err != nil {
				return fmt.Errorf("--rate: %w", err)
			}
			if start != "" {
				if req.StartDate, err = time.Parse("2006-01-02", start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}

			quote, err := installments.Calculate(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(quote)
			}

			fmt.Fprintf(out, "ยอดจัดไฟแนนซ์: %s\n", documents.FormatMoney(quote.Financed))
			fmt.Fprintf(out, "ดอกเบี้ย: %s\n", documents.FormatMoney(quote.Interest))
			fmt.Fprintf(out, "ผ่อนต่องวด: %s x %d งวด\n", documents.FormatMoney(quote.MonthlyPayment), quote.Months)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "งวด\tครบกำหนด\tยอดชำระ\tคงเหลือ")
			for _, in := range quote.Schedule {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", in.Number, documents.FormatThaiDate(in.DueDate),
					documents.FormatMoney(in.Amount), documents.FormatMoney(in.Balance))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "cash price")
	cmd.Flags().StringVar(&down, "down", "0", "down payment")
	cmd.Flags().StringVar(&rate, "rate", "0", "flat annual interest rate, e.g. 0.15")
	cmd.Flags().IntVar(&months, "months", 12, "number of monthly installments")
	cmd.Flags().StringVar(&start, "start", "", "contract date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}
