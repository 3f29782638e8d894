package i18n

// Message keys. Keys taking arguments document them in order.
const (
	SubmitSuccess   = "submit.success"
	SubmitFailure   = "submit.failure"
	SubmitTransport = "submit.transport"
	SubmitTimeout   = "submit.timeout"
	SubmitConflict  = "submit.conflict"
	SubmitAuth      = "submit.auth"
	SubmitPending   = "submit.pending"

	Required       = "rule.required"       // label
	LengthBetween  = "rule.length.between" // label, min, max
	LengthMin      = "rule.length.min"     // label, min
	LengthMax      = "rule.length.max"     // label, max
	RangeMin       = "rule.range.min"      // label, min
	CountMin       = "rule.count.min"      // min, label
	CountMax       = "rule.count.max"      // max, label
	BudgetExceeded = "rule.budget"         // label, ceiling
	EmailInvalid   = "rule.email"
	PhoneInvalid   = "rule.phone"
	OneOf          = "rule.oneof"    // label
	FileType       = "rule.filetype" // label, extensions
	OneCorrect     = "rule.onecorrect"
	TermsRequired  = "rule.terms"

	PasswordMismatch    = "password.mismatch"
	NewPasswordMismatch = "password.new.mismatch"
	PasswordReuse       = "password.reuse"

	LoginSuccess       = "login.success"
	LogoutSuccess      = "logout.success"
	RegisterSuccess    = "register.success"
	RegisterConflict   = "register.conflict"
	ForgotSuccess      = "forgot.success"
	VerifySuccess      = "verify.success"
	ResetSuccess       = "reset.success"
	ProfileSuccess     = "profile.success"
	PrivacySuccess     = "privacy.success"
	ApplicationSuccess = "application.success"
	ApplicationExists  = "application.conflict"
	CategorySaved      = "category.success"
	CategoryConflict   = "category.conflict"
	LessonSaved        = "lesson.success"
	ExamSaved          = "exam.success"
	ContentSaved       = "content.success"
	Deleted            = "delete.success"
	UploadSuccess      = "upload.success"
	NotSignedIn        = "session.none"
	SignedInAs         = "session.user"  // name, email
	BudgetStatus       = "budget.status" // label, total, ceiling, remaining
	TooManyRequests    = "api.ratelimit"
	NotFound           = "api.notfound"
	InvalidCredentials = "api.credentials"
	Forbidden          = "api.forbidden"
	BadRequest         = "api.badrequest"
	ItemSkipped        = "replay.skipped" // title
	ItemCapped         = "replay.capped"  // title, requested, granted

	LabelName              = "label.name"
	LabelFullName          = "label.fullName"
	LabelEmail             = "label.email"
	LabelPassword          = "label.password"
	LabelOldPassword       = "label.oldPassword"
	LabelNewPassword       = "label.newPassword"
	LabelConfirmPassword   = "label.confirmPassword"
	LabelPhone             = "label.phone"
	LabelLocation          = "label.location"
	LabelAbout             = "label.about"
	LabelEducation         = "label.education"
	LabelExperience        = "label.experience"
	LabelExpertise         = "label.expertise"
	LabelCV                = "label.cv"
	LabelCertificates      = "label.certificates"
	LabelTitle             = "label.title"
	LabelDescription       = "label.description"
	LabelCategory          = "label.category"
	LabelSlug              = "label.slug"
	LabelColor             = "label.color"
	LabelIcon              = "label.icon"
	LabelStatus            = "label.status"
	LabelDisplayOrder      = "label.displayOrder"
	LabelMetaTitle         = "label.metaTitle"
	LabelMetaDescription   = "label.metaDescription"
	LabelDifficulty        = "label.difficulty"
	LabelSections          = "label.sections"
	LabelSectionTitle      = "label.sectionTitle"
	LabelXP                = "label.xp"
	LabelDuration          = "label.duration"
	LabelQuestions         = "label.questions"
	LabelQuestionText      = "label.questionText"
	LabelPoints            = "label.points"
	LabelOptions           = "label.options"
	LabelOptionText        = "label.optionText"
	LabelContent           = "label.content"
	LabelProfileVisibility = "label.profileVisibility"
	LabelOnlineStatus      = "label.onlineStatus"
	LabelStatsSharing      = "label.statsSharing"
	LabelToken             = "label.token"
)

type entry struct{ tr, en string }

var entries = map[string]entry{
	SubmitSuccess:   {"İşlem başarıyla tamamlandı", "Saved successfully."},
	SubmitFailure:   {"Bir hata oluştu. Lütfen tekrar deneyin.", "Something went wrong. Please try again."},
	SubmitTransport: {"Sunucuya ulaşılamadı. Bağlantınızı kontrol edin.", "Could not reach the server. Please check your connection."},
	SubmitTimeout:   {"Sunucu zamanında yanıt vermedi. Lütfen tekrar deneyin.", "The server took too long to respond. Please try again."},
	SubmitConflict:  {"Bu kayıt zaten mevcut.", "This record already exists."},
	SubmitAuth:      {"Oturumunuzun süresi doldu. Lütfen tekrar giriş yapın (pixelsinav login).", "Your session has expired. Please log in again (pixelsinav login)."},
	SubmitPending:   {"Kaydediliyor...", "Saving..."},

	Required:       {"%s gerekli", "%s is required"},
	LengthBetween:  {"%s %d ile %d karakter arasında olmalıdır", "%s must be between %d and %d characters"},
	LengthMin:      {"%s en az %d karakter olmalıdır", "%s must be at least %d characters"},
	LengthMax:      {"%s en fazla %d karakter olabilir", "%s must be at most %d characters"},
	RangeMin:       {"%s en az %d olmalıdır", "%s must be at least %d"},
	CountMin:       {"En az %d %s eklemelisiniz", "Add at least %d %s"},
	CountMax:       {"En fazla %d %s ekleyebilirsiniz", "You can add at most %d %s"},
	BudgetExceeded: {"Toplam %s %d sınırını aşamaz", "Total %s cannot exceed %d"},
	EmailInvalid:   {"Geçerli bir e-posta adresi girin", "Enter a valid email address"},
	PhoneInvalid:   {"Geçerli bir telefon numarası girin", "Enter a valid phone number"},
	OneOf:          {"%s için geçersiz değer", "Invalid value for %s"},
	FileType:       {"%s yalnızca %s dosyası olabilir", "%s must be a %s file"},
	OneCorrect:     {"Her soru için tam olarak bir doğru seçenek işaretleyin", "Mark exactly one correct option for every question"},
	TermsRequired:  {"Kullanım koşullarını kabul etmelisiniz", "You must accept the terms of use"},

	PasswordMismatch:    {"Şifreler eşleşmiyor", "Passwords do not match"},
	NewPasswordMismatch: {"Yeni şifreler eşleşmiyor!", "New passwords do not match!"},
	PasswordReuse:       {"Yeni şifreniz eski şifrenizle aynı olamaz!", "Your new password cannot be the same as your old password!"},

	LoginSuccess:       {"Giriş başarılı!", "Logged in successfully!"},
	LogoutSuccess:      {"Çıkış yapıldı", "Logged out"},
	RegisterSuccess:    {"Kayıt başarılı! Lütfen e-posta adresinizi doğrulayın.", "Registration successful! Please verify your email address."},
	RegisterConflict:   {"Bu e-posta adresi zaten kayıtlı", "This email address is already registered"},
	ForgotSuccess:      {"Şifre sıfırlama bağlantısı e-posta adresinize gönderildi", "A password reset link has been sent to your email"},
	VerifySuccess:      {"Doğrulama e-postası gönderildi", "Verification email sent"},
	ResetSuccess:       {"Şifreniz başarıyla güncellendi", "Your password has been updated"},
	ProfileSuccess:     {"Profil bilgileriniz güncellendi", "Your profile has been updated"},
	PrivacySuccess:     {"Gizlilik ayarlarınız kaydedildi", "Your privacy settings have been saved"},
	ApplicationSuccess: {"Başvurunuz alındı. En kısa sürede değerlendirilecektir.", "Your application has been received and will be reviewed shortly."},
	ApplicationExists:  {"Zaten bekleyen bir başvurunuz var", "You already have a pending application"},
	CategorySaved:      {"Kategori kaydedildi", "Category saved"},
	CategoryConflict:   {"Bu slug ile bir kategori zaten var", "A category with this slug already exists"},
	LessonSaved:        {"Ders kaydedildi", "Lesson saved"},
	ExamSaved:          {"Sınav kaydedildi", "Exam saved"},
	ContentSaved:       {"İçerik kaydedildi", "Content saved"},
	Deleted:            {"Silindi", "Deleted"},
	UploadSuccess:      {"Dosya yüklendi", "File uploaded"},
	NotSignedIn:        {"Giriş yapılmamış", "Not signed in"},
	SignedInAs:         {"%s (%s) olarak giriş yapıldı", "Signed in as %s (%s)"},
	BudgetStatus:       {"%s: %d / %d (kalan %d)", "%s: %d / %d (%d remaining)"},
	TooManyRequests:    {"Çok fazla deneme. Lütfen biraz bekleyin.", "Too many attempts. Please wait a moment."},
	NotFound:           {"Kayıt bulunamadı", "Record not found"},
	InvalidCredentials: {"E-posta veya şifre hatalı", "Invalid email or password"},
	Forbidden:          {"Bu işlem için yetkiniz yok", "You are not allowed to do this"},
	BadRequest:         {"Geçersiz istek", "Invalid request"},
	ItemSkipped:        {"%q eklenemedi: sınır veya puan bütçesi dolu", "%q was not added: the limit or point budget is used up"},
	ItemCapped:         {"%q: %d yerine %d puan verildi", "%q: capped from %d to %d points"},

	LabelName:              {"Ad soyad", "Full name"},
	LabelFullName:          {"Ad soyad", "Full name"},
	LabelEmail:             {"E-posta", "Email"},
	LabelPassword:          {"Şifre", "Password"},
	LabelOldPassword:       {"Mevcut şifre", "Current password"},
	LabelNewPassword:       {"Yeni şifre", "New password"},
	LabelConfirmPassword:   {"Şifre tekrarı", "Password confirmation"},
	LabelPhone:             {"Telefon", "Phone"},
	LabelLocation:          {"Konum", "Location"},
	LabelAbout:             {"Hakkımda", "About"},
	LabelEducation:         {"Eğitim", "Education"},
	LabelExperience:        {"Deneyim", "Experience"},
	LabelExpertise:         {"Uzmanlık alanı", "Expertise"},
	LabelCV:                {"Özgeçmiş", "CV"},
	LabelCertificates:      {"sertifika", "certificates"},
	LabelTitle:             {"Başlık", "Title"},
	LabelDescription:       {"Açıklama", "Description"},
	LabelCategory:          {"Kategori", "Category"},
	LabelSlug:              {"Slug", "Slug"},
	LabelColor:             {"Renk", "Color"},
	LabelIcon:              {"İkon", "Icon"},
	LabelStatus:            {"Durum", "Status"},
	LabelDisplayOrder:      {"Sıralama", "Display order"},
	LabelMetaTitle:         {"Meta başlık", "Meta title"},
	LabelMetaDescription:   {"Meta açıklama", "Meta description"},
	LabelDifficulty:        {"Zorluk", "Difficulty"},
	LabelSections:          {"bölüm", "sections"},
	LabelSectionTitle:      {"Bölüm başlığı", "Section title"},
	LabelXP:                {"XP", "XP"},
	LabelDuration:          {"Süre (dakika)", "Duration (minutes)"},
	LabelQuestions:         {"soru", "questions"},
	LabelQuestionText:      {"Soru metni", "Question text"},
	LabelPoints:            {"puan", "points"},
	LabelOptions:           {"seçenek", "options"},
	LabelOptionText:        {"Seçenek metni", "Option text"},
	LabelContent:           {"İçerik", "Content"},
	LabelProfileVisibility: {"Profil görünürlüğü", "Profile visibility"},
	LabelOnlineStatus:      {"Çevrimiçi durumu", "Online status"},
	LabelStatsSharing:      {"İstatistik paylaşımı", "Statistics sharing"},
	LabelToken:             {"Doğrulama kodu", "Token"},
}
