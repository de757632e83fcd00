package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/auth"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/sheets"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs the root command against one database, the way a user
// running several commands in a row would.
type harness struct {
	t      *testing.T
	db     string
	ids    func() string
	sheets *sheets.MockWriter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EXPENSIVE_AUTH_DELAY", "0s")
	return &harness{
		t:      t,
		db:     filepath.Join(t.TempDir(), "expensive.db"),
		ids:    testutil.SequentialIDs("exp"),
		sheets: sheets.NewMockWriter(),
	}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	rt := newRuntime()
	rt.now = testutil.Clock(testutil.FixedNow)
	rt.newID = h.ids
	rt.newReportWriter = func(context.Context, sheets.Config, *slog.Logger) (service.ReportWriter, error) {
		return h.sheets, nil
	}

	var out bytes.Buffer
	cmd := newRootCmd(rt)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--db", h.db, "--log-level", "error"))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) listJSON(args ...string) []model.Expense {
	h.t.Helper()
	out := h.mustRun(append([]string{"list", "--json"}, args...)...)
	var rows []model.Expense
	require.NoError(h.t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func ids(rows []model.Expense) []string {
	out := make([]string, len(rows))
	for i, e := range rows {
		out[i] = e.ID
	}
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "expensive dev\n", h.mustRun("version"))
}

func TestExpenseLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "--amount", "50.000", "--description", "Cơm trưa", "--category", "1")
	assert.Contains(t, out, "Added Cơm trưa")
	assert.Contains(t, out, "id: exp-1")

	out = h.mustRun("add", "-a", "120000", "-m", "Taxi", "-c", "di chuyển", "-d", "2024-01-10")
	assert.Contains(t, out, "id: exp-2")

	rows := h.listJSON()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"exp-1", "exp-2"}, ids(rows))
	assert.Equal(t, int64(50000), rows[0].Amount)
	assert.Equal(t, model.NewDate(2024, time.January, 15), rows[0].Date)
	assert.Equal(t, 2, rows[1].CategoryID)

	assert.Equal(t, []string{"exp-2"}, ids(h.listJSON("--category", "2")))
	assert.Equal(t, []string{"exp-2", "exp-1"}, ids(h.listJSON("--sort", "amount")))
	assert.Equal(t, []string{"exp-1"}, ids(h.listJSON("-q", "CƠM")))
	assert.Equal(t, []string{"exp-1"}, ids(h.listJSON("--limit", "1")))

	out = h.mustRun("edit", "exp-2", "--amount", "130000")
	assert.Contains(t, out, "Updated Taxi")
	rows = h.listJSON("--category", "2")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(130000), rows[0].Amount)
	assert.Equal(t, model.NewDate(2024, time.January, 10), rows[0].Date)
	assert.Equal(t, "Taxi", rows[0].Description)

	out = h.mustRun("list")
	assert.Contains(t, out, "2 / 2 shown")
	assert.Contains(t, out, "Cơm trưa")

	out = h.mustRun("delete", "exp-1", "--yes")
	assert.Contains(t, out, "Deleted Cơm trưa")
	assert.Equal(t, []string{"exp-2"}, ids(h.listJSON()))

	out = h.mustRun("delete", "exp-1", "--yes")
	assert.Contains(t, out, "nothing deleted")

	out, err := h.run("n\n", "rm", "exp-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Len(t, h.listJSON(), 1)
}

func TestAdd_Interactive(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("Phở bò\n45000\n\n\n", "add")
	require.NoError(t, err, out)
	assert.Contains(t, out, "New expense")

	rows := h.listJSON()
	require.Len(t, rows, 1)
	assert.Equal(t, "Phở bò", rows[0].Description)
	assert.Equal(t, int64(45000), rows[0].Amount)
	assert.Equal(t, model.OtherCategoryID, rows[0].CategoryID)
	assert.Equal(t, model.NewDate(2024, time.January, 15), rows[0].Date)
}

func TestAdd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "not a number", args: []string{"--amount", "abc"}},
		{name: "below minimum", args: []string{"--amount", "500"}},
		{name: "unknown category", args: []string{"--amount", "5000", "--category", "42"}},
		{name: "future date", args: []string{"--amount", "5000", "--date", "2024-02-01"}},
		{name: "malformed date", args: []string{"--amount", "5000", "--date", "15/01/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run("", append([]string{"add"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.Empty(t, h.listJSON())
		})
	}
}

func TestEdit_UnknownExpense(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "edit", "nope", "--amount", "5000")
	assert.ErrorIs(t, err, errNoSuchExpense)
}

func TestFilterCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "-a", "50000", "-m", "Cơm", "-c", "1")
	h.mustRun("add", "-a", "20000", "-m", "Xe buýt", "-c", "2", "-d", "2023-12-31")

	out := h.mustRun("filter", "set", "--category", "1", "--sort", "amount", "--order", "asc")
	assert.Contains(t, out, "Filters saved")
	assert.Contains(t, out, "Matching:  1 / 2")

	// Saved filters survive into the next run.
	out = h.mustRun("filter", "show")
	assert.Contains(t, out, "Ăn uống")
	assert.Contains(t, out, "amount asc")
	assert.Equal(t, []string{"exp-1"}, ids(h.listJSON()))
	assert.Len(t, h.listJSON("--category", "all"), 2)

	out = h.mustRun("filter", "set", "--category", "all", "--window", "this_year")
	assert.Contains(t, out, "Matching:  1 / 2")
	assert.Equal(t, []string{"exp-1"}, ids(h.listJSON()))

	out = h.mustRun("filter", "set", "--clear-dates")
	assert.Contains(t, out, "Matching:  2 / 2")

	out = h.mustRun("filter", "reset")
	assert.Contains(t, out, "Filters reset")
	assert.Contains(t, out, "date desc")

	_, err := h.run("", "filter", "set")
	assert.Error(t, err)

	_, err = h.run("", "filter", "set", "--clear-dates", "--from", "2024-01-01")
	assert.Error(t, err)
}

func TestList_RejectsConflictingFlags(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{"list", "--window", "this_month", "--from", "2024-01-01"},
		{"list", "--window", "fortnight"},
		{"list", "--from", "2024-02-01", "--to", "2024-01-01"},
		{"list", "--sort", "size"},
		{"list", "--order", "sideways"},
		{"list", "--category", "nope"},
	}
	for _, args := range tests {
		_, err := h.run("", args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestList_Empty(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("list"), "No expenses yet")

	h.mustRun("add", "-a", "50000", "-c", "1")
	assert.Contains(t, h.mustRun("list", "-c", "3"), "No expenses match these filters.")
}

func TestSummaryAndCategories(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "-a", "50000", "-m", "Cơm", "-c", "1")
	h.mustRun("add", "-a", "150000", "-m", "Sách", "-c", "6", "-d", "2024-01-02")

	out := h.mustRun("summary")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "1 expense(s)")
	assert.Contains(t, out, "Tháng 1/2024")
	assert.Contains(t, out, "Giáo dục")

	out = h.mustRun("categories")
	assert.Contains(t, out, "Khác (default)")
	assert.Contains(t, out, "Gia đình")
}

func TestBudgetCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "-a", "1.500.000", "-m", "Siêu thị", "-c", "1")
	h.mustRun("add", "-a", "700000", "-m", "Nhà hàng", "-c", "1", "-d", "2024-01-03")
	h.mustRun("add", "-a", "200000", "-m", "Taxi", "-c", "2")

	assert.NotContains(t, h.mustRun("summary"), "Budget,")
	assert.Contains(t, h.mustRun("budget", "list"), "No budgets for tháng 1/2024.")

	out := h.mustRun("budget", "set", "2.000.000", "--category", "ăn uống")
	assert.Contains(t, out, "2.000.000 ₫")
	h.mustRun("budget", "set", "500000", "-c", "2")
	h.mustRun("budget", "set", "10.000.000")
	h.mustRun("budget", "set", "100000", "-c", "1", "--month", "2023-12")

	out = h.mustRun("budget", "list")
	assert.Contains(t, out, "Budget, tháng 1/2024")
	assert.Contains(t, out, "Tổng")
	assert.Contains(t, out, "2.400.000 ₫", "overall spending")
	assert.Contains(t, out, "110,0%")
	assert.Contains(t, out, "Over budget: ")
	assert.Contains(t, out, "Ăn uống by 200.000 ₫")
	assert.NotContains(t, out, "Over budget: Tổng")

	out = h.mustRun("summary")
	assert.Contains(t, out, "Budget, tháng 1/2024")
	assert.Contains(t, out, "Ăn uống by 200.000 ₫")

	out = h.mustRun("budget", "list", "--month", "2023-12")
	assert.Contains(t, out, "100.000 ₫")
	assert.NotContains(t, out, "Over budget")

	out = h.mustRun("budget", "delete", "-c", "1")
	assert.Contains(t, out, "Deleted budget")
	assert.NotContains(t, h.mustRun("budget", "list"), "Over budget")

	_, err := h.run("", "budget", "delete", "-c", "1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBudgetSet_Invalid(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero amount", args: []string{"budget", "set", "0"}},
		{name: "fractional amount", args: []string{"budget", "set", "1000.50"}},
		{name: "unknown category", args: []string{"budget", "set", "100000", "-c", "99"}},
		{name: "bad month", args: []string{"budget", "set", "100000", "--month", "01/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run("", tt.args...)
			assert.Error(t, err)
		})
	}
	assert.Contains(t, h.mustRun("budget", "list"), "No budgets")
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "whoami")
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	out, err := h.run("secret1\n", "login", "-u", "alice")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Welcome, alice!")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Signed in: Vừa xong")

	out = h.mustRun("profile", "--name", "Alice Nguyen")
	assert.Contains(t, out, "Profile updated: Alice Nguyen <alice@example.com>")
	assert.Contains(t, h.mustRun("whoami"), "Alice Nguyen")

	_, err = h.run("", "profile", "--email", "not-an-email")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.run("", "profile")
	assert.Error(t, err)

	assert.Contains(t, h.mustRun("logout"), "Signed out.")
	assert.Contains(t, h.mustRun("logout"), "Not signed in.")

	_, err = h.run("", "profile", "--name", "Bob")
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestLogin_MissingPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("\n", "login", "-u", "alice")
	require.Error(t, err)
	assert.Equal(t, auth.MsgMissingCredentials, common.UserMessage(err))

	_, err = h.run("", "whoami")
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestRegister(t *testing.T) {
	base := []string{"register", "--name", "Nguyễn Văn A", "--email", "a@example.com", "-u", "nguyen_a"}

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{name: "valid", args: base, stdin: "abc123\nabc123\n"},
		{name: "weak password", args: base, stdin: "abcdef\nabcdef\n", wantErr: "Mật khẩu phải chứa ít nhất một chữ cái và một số"},
		{name: "mismatch", args: base, stdin: "abc123\nabc124\n", wantErr: "Mật khẩu xác nhận không khớp"},
		{
			name:    "bad username",
			args:    []string{"register", "--name", "A", "--email", "a@example.com", "-u", "a b"},
			stdin:   "abc123\nabc123\n",
			wantErr: "Tên đăng nhập chỉ được chứa chữ cái, số và dấu gạch dưới",
		},
		{
			name:    "asks for missing fields",
			args:    []string{"register"},
			stdin:   "Trần B\nb@example\nbbb\nabc123\nabc123\n",
			wantErr: "Email không hợp lệ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			out, err := h.run(tt.stdin, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				assert.Equal(t, tt.wantErr, common.UserMessage(err))
				return
			}
			require.NoError(t, err, out)
			assert.Contains(t, out, auth.MsgRegistered)
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	src := newHarness(t)
	src.mustRun("add", "-a", "50000", "-m", "Cơm", "-c", "1")
	src.mustRun("add", "-a", "20000", "-m", "Xe buýt", "-c", "2", "-d", "2024-01-03")
	src.mustRun("filter", "set", "--category", "1")

	file := filepath.Join(t.TempDir(), "backup.json")
	out := src.mustRun("export", "--all", "-o", file)
	assert.Contains(t, out, "Exported 2 expenses")

	// Without --all only the saved filter's matches go out.
	var filtered []model.Expense
	require.NoError(t, json.Unmarshal([]byte(src.mustRun("export")), &filtered))
	assert.Equal(t, []string{"exp-1"}, ids(filtered))

	dst := newHarness(t)
	dst.mustRun("add", "-a", "99000", "-m", "Old", "-c", "8")

	out, err := dst.run("", "import", file, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 expenses.")
	assert.Len(t, dst.listJSON(), 1)

	out, err = dst.run("n\n", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Import cancelled.")

	out, err = dst.run("y\n", "import", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 expenses")
	assert.Contains(t, out, "Previous data saved as backup auto-import-")

	rows := dst.listJSON()
	assert.Equal(t, []string{"exp-1", "exp-2"}, ids(rows))
	assert.Equal(t, "Xe buýt", rows[1].Description)

	out = dst.mustRun("backup", "list")
	assert.Contains(t, out, "auto-import-")
	assert.Contains(t, out, "auto")
}

func TestImportJSON_RejectsUnknownFields(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id":"x","amount":1,"price":2}]`), 0o600))

	_, err := h.run("", "import", file, "--yes")
	assert.Error(t, err)
}

func TestImportJSON_RejectsOutOfRangeRecords(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "-a", "99000", "-m", "Old", "-c", "8")

	tests := []struct {
		name   string
		record string
		want   string
	}{
		{name: "negative amount", record: `{"id":"x","amount":-5,"categoryId":1}`, want: "Số tiền phải là một số dương"},
		{name: "zero amount", record: `{"id":"x","amount":0,"categoryId":1}`, want: "Số tiền phải là một số dương"},
		{name: "below minimum", record: `{"id":"x","amount":500,"categoryId":1}`, want: "Số tiền tối thiểu là"},
		{name: "unknown category", record: `{"id":"x","amount":50000,"categoryId":99}`, want: "Danh mục không hợp lệ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "bad.json")
			body := `[{"id":"ok","amount":50000,"categoryId":1},` + tt.record + `]`
			require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

			_, err := h.run("", "import", file, "--yes")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.Contains(t, common.UserMessage(err), "1 of 2 records")
			assert.ErrorContains(t, err, "record 2 (x)")
			assert.ErrorContains(t, err, tt.want)

			rows := h.listJSON()
			require.Len(t, rows, 1, "nothing is replaced")
			assert.Equal(t, "Old", rows[0].Description)
		})
	}
}

const testOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240115120000[0:GMT]
<LANGUAGE>VIE
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>VND
<BANKACCTFROM>
<BANKID>970436
<ACCTID>0011004455667
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240114120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45000.00
<FITID>2024011001
<NAME>POS PURCHASE HIGHLANDS COFFEE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240111120000[0:GMT]
<TRNAMT>15000000.00
<FITID>2024011101
<NAME>LUONG THANG 1
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240112120000[0:GMT]
<TRNAMT>-125000.00
<FITID>2024011201
<NAME>CO.OP MART
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240113120000[0:GMT]
<TRNAMT>-2000000.00
<FITID>2024011301
<NAME>CHUYEN TIEN NHA
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240113130000[0:GMT]
<TRNAMT>-500.00
<FITID>2024011302
<NAME>PHI SMS BANKING
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>5000000.00
<DTASOF>20240114120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestImportOFX(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "statement.qfx")
	require.NoError(t, os.WriteFile(file, []byte(testOFX), 0o600))

	out := h.mustRun("import", file, "--dry-run")
	assert.Contains(t, out, "Found 4 debits, 3 new.")
	assert.Contains(t, out, "Skipped 1 debits")
	assert.Empty(t, h.listJSON())

	out = h.mustRun("import", file)
	assert.Contains(t, out, "Imported 3 expenses")

	rows := h.listJSON("--sort", "amount", "--order", "asc")
	require.Len(t, rows, 3)
	assert.Equal(t, int64(45000), rows[0].Amount)
	assert.Equal(t, 1, rows[0].CategoryID)
	assert.Equal(t, int64(125000), rows[1].Amount)
	assert.Equal(t, 3, rows[1].CategoryID)
	assert.Equal(t, "CHUYEN TIEN NHA", rows[2].Description)
	assert.Equal(t, model.OtherCategoryID, rows[2].CategoryID)

	// Already-recorded debits are skipped.
	out = h.mustRun("import", file)
	assert.Contains(t, out, "Found 4 debits, 0 new.")
	assert.Len(t, h.listJSON(), 3)
}

func TestImport_UnknownFormat(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "expenses.csv")
	require.NoError(t, os.WriteFile(file, []byte("a,b\n"), 0o600))

	_, err := h.run("", "import", file)
	assert.ErrorContains(t, err, "pass --format")
}

func TestExportSheets(t *testing.T) {
	h := newHarness(t)
	for _, env := range []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
	} {
		t.Setenv(env, "")
	}

	_, err := h.run("", "export", "--format", "sheets")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", filepath.Join(t.TempDir(), "sa.json"))
	h.mustRun("add", "-a", "50000", "-m", "Cơm", "-c", "1")
	h.mustRun("add", "-a", "30000", "-m", "Trà sữa", "-c", "1", "-d", "2024-01-14")
	h.mustRun("add", "-a", "20000", "-m", "Xe buýt", "-c", "2")

	out := h.mustRun("export", "--format", "sheets")
	assert.Contains(t, out, "Exported 3 expenses to Google Sheets")

	report := h.sheets.LastReport
	require.NotNil(t, report)
	assert.Equal(t, int64(100000), report.Total)
	require.Len(t, report.ByCategory, 2)
	assert.Equal(t, 1, report.ByCategory[0].Category.ID)
	assert.InDelta(t, 80.0, report.ByCategory[0].Percentage, 0.001)

	h.sheets.SetWriteError(assert.AnError)
	_, err = h.run("", "export", "-f", "sheets")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = h.run("", "export", "-f", "xml")
	assert.Error(t, err)
}

func TestBackupCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "-a", "50000", "-m", "Cơm", "-c", "1")

	out := h.mustRun("backup", "create", "--tag", "before", "-d", "before cleanup")
	assert.Contains(t, out, "Created backup before")
	assert.Contains(t, out, "1 expenses")
	assert.Contains(t, out, "before cleanup")

	_, err := h.run("", "backup", "create", "--tag", "before")
	assert.ErrorIs(t, err, storage.ErrCheckpointExists)

	out = h.mustRun("backup", "list")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "manual")

	h.mustRun("add", "-a", "70000", "-m", "Bún", "-c", "1")
	require.Len(t, h.listJSON(), 2)

	out, err = h.run("n\n", "backup", "restore", "before")
	require.NoError(t, err)
	assert.Contains(t, out, "Restore cancelled.")
	assert.Len(t, h.listJSON(), 2)

	out = h.mustRun("backup", "restore", "before", "--force")
	assert.Contains(t, out, "Restored from backup before")
	assert.Equal(t, []string{"exp-1"}, ids(h.listJSON()))

	_, err = h.run("", "backup", "restore", "missing", "--force")
	assert.ErrorIs(t, err, storage.ErrCheckpointNotFound)

	out, err = h.run("y\n", "backup", "delete", "before")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted backup before")
	assert.Contains(t, h.mustRun("backup", "list"), "No backups found.")
}

func TestBackup_NeedsSQLite(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "backup", "list", "--backend", "memory")
	assert.ErrorContains(t, err, "sqlite backend")
}

func TestMigrate(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("migrate")
	assert.Contains(t, out, "schema version 2")

	out = h.mustRun("migrate", "--status")
	assert.Contains(t, out, "Current version: 2")
	assert.Contains(t, out, "Latest version:  2")
	assert.NotContains(t, out, "pending")

	out = h.mustRun("migrate", "--backend", "memory")
	assert.Contains(t, out, "no schema to migrate")
}

func TestUnknownBackend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "list", "--backend", "floppy")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
