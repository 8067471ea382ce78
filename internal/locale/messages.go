package locale

// 界面提示文案的键。
const (
	MsgLoginSuccess     = "login.success"
	MsgLoginFailed      = "login.failed"
	MsgAccessDenied     = "login.denied"
	MsgUserNotFound     = "login.user_not_found"
	MsgWrongPassword    = "login.wrong_password"
	MsgInvalidEmail     = "auth.invalid_email"
	MsgTooManyRequests  = "login.too_many_requests"
	MsgRegisterSuccess  = "register.success"
	MsgRegisterFailed   = "register.failed"
	MsgPasswordMismatch = "register.password_mismatch"
	MsgPasswordTooShort = "register.password_short"
	MsgEmailInUse       = "register.email_in_use"
	MsgWeakPassword     = "register.weak_password"
	MsgRegisterDisabled = "register.disabled"
	MsgRegisterClosed   = "register.closed"
	MsgLoggedOut        = "logout.success"
	MsgPublishSuccess   = "publish.success"
	MsgFieldsRequired   = "publish.fields_required"
	MsgPublishFailed    = "publish.failed"
	MsgUpdateSuccess    = "update.success"
	MsgDeleteSuccess    = "delete.success"
	MsgDeleteConfirm    = "delete.confirm"
	MsgDeleteFailed     = "delete.failed"
	MsgImportSuccess    = "import.success"
	MsgImportNotMD      = "import.not_markdown"
	MsgImportReadFailed = "import.read_failed"
	MsgSettingsSaved    = "settings.saved"
	MsgLoadFailed       = "content.load_failed"
	MsgNotFound         = "content.not_found"
)

type text struct {
	zh string
	en string
}

var catalog = map[string]text{
	MsgLoginSuccess:     {zh: "登录成功！", en: "Signed in."},
	MsgLoginFailed:      {zh: "登录失败，请重试", en: "Sign in failed, please retry"},
	MsgAccessDenied:     {zh: "访问拒绝 // ACCESS DENIED", en: "ACCESS DENIED"},
	MsgUserNotFound:     {zh: "用户不存在", en: "User not found"},
	MsgWrongPassword:    {zh: "密码错误", en: "Wrong password"},
	MsgInvalidEmail:     {zh: "邮箱格式不正确", en: "Invalid email address"},
	MsgTooManyRequests:  {zh: "尝试次数过多，请稍后再试", en: "Too many attempts, try again later"},
	MsgRegisterSuccess:  {zh: "注册成功！请使用新账号登录", en: "Account created. Please sign in."},
	MsgRegisterFailed:   {zh: "注册失败，请重试", en: "Registration failed, please retry"},
	MsgPasswordMismatch: {zh: "两次输入的密码不一致", en: "Passwords do not match"},
	MsgPasswordTooShort: {zh: "密码长度至少6位", en: "Password must be at least 6 characters"},
	MsgEmailInUse:       {zh: "邮箱已被注册", en: "Email already registered"},
	MsgWeakPassword:     {zh: "密码强度太弱", en: "Password is too weak"},
	MsgRegisterDisabled: {zh: "当前模式不支持注册", en: "Registration is disabled"},
	MsgRegisterClosed:   {zh: "管理员账号已存在，新账号需由管理员在控制台添加", en: "Registration is closed, an admin must add new accounts"},
	MsgLoggedOut:        {zh: "已退出管理模式", en: "Signed out"},
	MsgPublishSuccess:   {zh: "数据已同步至云端核心 // UPLOAD COMPLETE", en: "UPLOAD COMPLETE"},
	MsgFieldsRequired:   {zh: "标题和内容不能为空！", en: "Title and content are required"},
	MsgPublishFailed:    {zh: "发布失败", en: "Publish failed"},
	MsgUpdateSuccess:    {zh: "修改已保存", en: "Changes saved"},
	MsgDeleteSuccess:    {zh: "文档已删除", en: "Document deleted"},
	MsgDeleteConfirm:    {zh: "确认从数据库删除此数据？输入 'DELETE' 确认操作。", en: "Type 'DELETE' to confirm removal."},
	MsgDeleteFailed:     {zh: "删除失败", en: "Delete failed"},
	MsgImportSuccess:    {zh: "成功导入", en: "Imported"},
	MsgImportNotMD:      {zh: "错误: 文件格式必须是 .md", en: "Error: file must be a .md document"},
	MsgImportReadFailed: {zh: "错误: 读取文件失败", en: "Error: failed to read file"},
	MsgSettingsSaved:    {zh: "设置已保存", en: "Settings saved"},
	MsgLoadFailed:       {zh: "数据拉取失败", en: "Failed to load content"},
	MsgNotFound:         {zh: "内容不存在", en: "Content not found"},
}

// Text 返回 key 在指定语言下的文案，未知的 key 原样返回。
func Text(language, key string) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	if NormalizeLanguage(language) == LanguageEnglish && entry.en != "" {
		return entry.en
	}
	return entry.zh
}
