package validate

// User-facing messages, in the application's display language.
const (
	MsgValid          = "Hợp lệ"
	MsgRequired       = "%s không được để trống"
	DefaultFieldLabel = "Trường này"

	MsgEmailRequired = "Email không được để trống"
	MsgEmailInvalid  = "Email không hợp lệ"
	MsgEmailValid    = "Email hợp lệ"

	MsgPasswordRequired = "Mật khẩu không được để trống"
	MsgPasswordTooShort = "Mật khẩu phải có ít nhất %d ký tự"
	MsgPasswordTooLong  = "Mật khẩu không được vượt quá %d ký tự"
	MsgPasswordWeak     = "Mật khẩu phải chứa ít nhất một chữ cái và một số"
	MsgPasswordValid    = "Mật khẩu hợp lệ"

	MsgConfirmRequired = "Vui lòng xác nhận mật khẩu"
	MsgConfirmMismatch = "Mật khẩu xác nhận không khớp"
	MsgConfirmValid    = "Mật khẩu xác nhận hợp lệ"

	MsgUsernameRequired = "Tên đăng nhập không được để trống"
	MsgUsernameTooShort = "Tên đăng nhập phải có ít nhất %d ký tự"
	MsgUsernameTooLong  = "Tên đăng nhập không được vượt quá %d ký tự"
	MsgUsernameCharset  = "Tên đăng nhập chỉ được chứa chữ cái, số và dấu gạch dưới"
	MsgUsernameValid    = "Tên đăng nhập hợp lệ"

	MsgAmountNotPositive = "Số tiền phải là một số dương"
	MsgAmountTooSmall    = "Số tiền tối thiểu là %s"
	MsgAmountTooLarge    = "Số tiền tối đa là %s"
	MsgAmountValid       = "Số tiền hợp lệ"

	MsgDateRequired = "Ngày không được để trống"
	MsgDateInvalid  = "Ngày không hợp lệ"
	MsgDateFuture   = "Ngày không thể trong tương lai"
	MsgDateValid    = "Ngày hợp lệ"

	MsgCategoryInvalid = "Danh mục không hợp lệ"
	MsgCategoryValid   = "Danh mục hợp lệ"
)
