package website

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Color palette. Text colors keep a 4.5:1 contrast on their backgrounds.
var Colors = map[string]string{
	// Backgrounds
	"bg":      "#FFFFFF",
	"bgAlt":   "#F9FAFB",
	"bgTint":  "#EEF2FF", // indigo-50
	"bgDark":  "#111827", // footer
	"overlay": "rgba(17,24,39,0.55)",

	// Text
	"text":      "#111827",
	"textMuted": "#4B5563",
	"textDim":   "#6B7280",
	"textLight": "#9CA3AF",

	// Brand gradient
	"primary":     "#6366F1", // indigo-500
	"primaryDark": "#4F46E5",
	"secondary":   "#EC4899", // pink-500

	// Status
	"success": "#10B981",
	"warning": "#F59E0B",
	"danger":  "#DC2626",
	"info":    "#3B82F6",

	// Password strength tones
	"weak":   "#EF4444",
	"fair":   "#F59E0B",
	"good":   "#3B82F6",
	"strong": "#10B981",

	// Borders
	"border":      "#E5E7EB",
	"borderLight": "#D1D5DB",
}

// FontFamily is the system font stack.
var FontFamily = `system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Noto Sans Thai', 'Helvetica Neue', Arial, sans-serif`

var styles = sync.OnceValue(func() string {
	var sb strings.Builder

	sb.WriteString(cssReset())
	sb.WriteString(cssVariables(Colors))
	sb.WriteString(cssBase())
	sb.WriteString(cssLayout())
	sb.WriteString(cssNav())
	sb.WriteString(cssButtons())
	sb.WriteString(cssForms())
	sb.WriteString(cssCards())
	sb.WriteString(cssLanding())
	sb.WriteString(cssWizard())
	sb.WriteString(cssAuth())
	sb.WriteString(cssFooter())
	sb.WriteString(cssAnimations())
	sb.WriteString(cssAccessibility())
	sb.WriteString(cssResponsive())

	return sb.String()
})

// RenderStyles returns the site stylesheet. It is built once.
func RenderStyles() string {
	return styles()
}

func cssReset() string {
	return `
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%;scroll-behavior:smooth}
body{line-height:1.6;-webkit-font-smoothing:antialiased}
img,svg{display:block;max-width:100%}
input,button,textarea,select{font:inherit}
a{color:inherit;text-decoration:none}
ul,ol{list-style:none}
`
}

// Variables are sorted so the stylesheet is byte-stable.
func cssVariables(colors map[string]string) string {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]string, 0, len(names))
	for _, name := range names {
		vars = append(vars, fmt.Sprintf("--color-%s:%s", name, colors[name]))
	}
	return fmt.Sprintf(":root{%s;--font-sans:%s;--gradient:linear-gradient(90deg,var(--color-primary),var(--color-secondary))}\n",
		strings.Join(vars, ";"), FontFamily)
}

func cssBase() string {
	return `
body{font-family:var(--font-sans);background:var(--color-bg);color:var(--color-text);min-height:100vh}
h1{font-size:clamp(2rem,5vw,3.5rem);font-weight:800;line-height:1.1;letter-spacing:-0.02em}
h2{font-size:clamp(1.5rem,3vw,2.25rem);font-weight:700;line-height:1.2}
h3{font-size:1.125rem;font-weight:600}
p{color:var(--color-textMuted)}
.text-gradient{background:var(--gradient);-webkit-background-clip:text;-webkit-text-fill-color:transparent;background-clip:text}
.muted{color:var(--color-textDim);font-size:0.875rem}
.link{color:var(--color-primaryDark);font-weight:500}
.link:hover{text-decoration:underline}
`
}

func cssLayout() string {
	return `
.container{width:100%;max-width:72rem;margin:0 auto;padding:0 1rem}
.section{padding:3rem 0}
.section-tint{background:var(--color-bgAlt)}
.flex{display:flex}.flex-col{flex-direction:column}.items-center{align-items:center}.justify-center{justify-content:center}.justify-between{justify-content:space-between}.flex-wrap{flex-wrap:wrap}
.gap-sm{gap:0.5rem}.gap-md{gap:1rem}.gap-lg{gap:1.5rem}
.text-center{text-align:center}
.grid{display:grid;gap:1.5rem}
.grid-2,.grid-3,.grid-4{grid-template-columns:1fr}
.stack>*+*{margin-top:1rem}
.page{padding-top:5rem;min-height:100vh}
.page-tint{background:linear-gradient(135deg,#EEF2FF,#FFFFFF 50%,#FDF2F8)}
`
}

func cssNav() string {
	return `
.nav{position:fixed;top:0;left:0;right:0;z-index:50;background:rgba(255,255,255,0.95);backdrop-filter:blur(8px);border-bottom:1px solid var(--color-border)}
.nav-inner{display:flex;align-items:center;justify-content:space-between;height:4rem}
.logo{display:flex;align-items:center;gap:0.5rem;font-size:1.25rem;color:var(--color-text)}
.logo-mark{display:inline-flex;align-items:center;justify-content:center;width:2rem;height:2rem;border-radius:0.5rem;background:var(--gradient);color:#FFFFFF;font-weight:800}
.nav-links{display:none;align-items:center;gap:1.5rem}
.nav-link{color:var(--color-textMuted);font-weight:500}
.nav-link:hover{color:var(--color-primaryDark)}
.nav-actions{display:none;align-items:center;gap:0.75rem}
.nav-toggle{display:inline-flex;align-items:center;justify-content:center;width:2.75rem;height:2.75rem;border:none;background:transparent;border-radius:0.5rem;cursor:pointer;font-size:1.5rem;color:var(--color-textMuted)}
.nav-toggle:hover{background:var(--color-bgAlt)}
.nav-mobile{border-top:1px solid var(--color-border);padding:1rem 0}
.nav-mobile .nav-link{display:block;padding:0.5rem 0}
.nav-mobile-actions{display:flex;flex-direction:column;gap:0.5rem;padding-top:1rem;margin-top:0.5rem;border-top:1px solid var(--color-border)}
.locale-switch{display:inline-flex;border:1px solid var(--color-border);border-radius:9999px;overflow:hidden}
.locale-switch button{border:none;background:transparent;padding:0.25rem 0.75rem;font-size:0.8rem;font-weight:600;cursor:pointer;color:var(--color-textDim)}
.locale-switch button[aria-pressed="true"]{background:var(--gradient);color:#FFFFFF}
`
}

func cssButtons() string {
	// 44px minimum tap target
	return `
.btn{display:inline-flex;align-items:center;justify-content:center;gap:0.5rem;font-weight:600;border-radius:0.5rem;border:2px solid transparent;cursor:pointer;transition:all 0.3s ease;min-height:2.75rem;text-align:center}
.btn:focus-visible{outline:2px solid var(--color-primary);outline-offset:2px}
.btn:disabled,.btn[aria-disabled="true"]{opacity:0.5;cursor:not-allowed;transform:none}
.btn-primary{background:var(--gradient);color:#FFFFFF}
.btn-primary:hover{transform:translateY(-2px);box-shadow:0 10px 20px rgba(99,102,241,0.25)}
.btn-secondary{background:transparent;color:var(--color-primaryDark);border-color:var(--color-primaryDark)}
.btn-secondary:hover{background:var(--color-primaryDark);color:#FFFFFF}
.btn-outline{background:transparent;color:#374151;border-color:var(--color-borderLight)}
.btn-outline:hover{background:var(--color-bgAlt);border-color:var(--color-textLight)}
.btn-sm{padding:0.5rem 0.75rem;font-size:0.875rem}
.btn-md{padding:0.75rem 1rem;font-size:1rem}
.btn-lg{padding:1rem 1.5rem;font-size:1.125rem}
.btn-full{width:100%}
.btn-facebook{color:#2563EB;border-color:#BFDBFE}
.btn-instagram{color:#DB2777;border-color:#FBCFE8}
`
}

func cssForms() string {
	return `
.field{width:100%}
.field-label{display:block;font-size:0.875rem;font-weight:500;color:#374151;margin-bottom:0.5rem}
.field-control{position:relative}
.input{display:block;width:100%;padding:0.75rem;border:1px solid var(--color-borderLight);border-radius:0.5rem;background:#FFFFFF;color:var(--color-text)}
.input:focus{outline:none;border-color:transparent;box-shadow:0 0 0 2px var(--color-primary)}
.input:disabled{background:var(--color-bgAlt);color:var(--color-textDim);cursor:not-allowed}
.input-error{border-color:#FCA5A5}
.input-error:focus{box-shadow:0 0 0 2px var(--color-danger)}
.has-right-icon .input{padding-right:3rem}
.field-icon{position:absolute;top:0;bottom:0;right:0;display:flex;align-items:center;padding-right:0.75rem}
.field-icon button{border:none;background:transparent;cursor:pointer;color:var(--color-textLight);font-size:0.8rem;font-weight:600}
.field-error{margin-top:0.5rem;font-size:0.875rem;color:var(--color-danger)}
.checkbox{display:inline-flex;align-items:center;gap:0.5rem;cursor:pointer;font-size:0.875rem;color:var(--color-textMuted)}
.checkbox input{width:1rem;height:1rem;accent-color:var(--color-primary)}
.form-alert{padding:0.75rem 1rem;border-radius:0.5rem;background:#FEF2F2;color:var(--color-danger);font-size:0.875rem}
.divider{display:flex;align-items:center;gap:1rem;color:var(--color-textDim);font-size:0.875rem;margin:1.5rem 0}
.divider::before,.divider::after{content:"";flex:1;border-top:1px solid var(--color-borderLight)}
`
}

func cssCards() string {
	return `
.card{background:#FFFFFF;border-radius:0.75rem;border:1px solid var(--color-border);box-shadow:0 1px 2px rgba(0,0,0,0.05);padding:1.5rem}
.card-hover{transition:all 0.3s ease}
.card-hover:hover{transform:translateY(-4px);box-shadow:0 10px 25px rgba(0,0,0,0.1)}
.card-header{padding-bottom:1rem}
.card-content>*+*{margin-top:1rem}
`
}

func cssLanding() string {
	return `
.hero{padding:7rem 0 4rem;background:linear-gradient(135deg,#EEF2FF,#FFFFFF 50%,#FDF2F8)}
.hero-grid{display:grid;gap:3rem;align-items:center}
.hero-subtitle{font-size:1.125rem;margin:1.5rem 0 2rem;max-width:36rem}
.hero-actions{display:flex;flex-direction:column;gap:1rem}
.hero-cards{display:grid;gap:1rem}
.highlight-card{display:flex;align-items:center;gap:1rem;background:#FFFFFF;border-radius:1rem;padding:1rem 1.25rem;box-shadow:0 10px 25px rgba(99,102,241,0.12)}
.highlight-dot{width:0.75rem;height:0.75rem;border-radius:9999px;background:var(--gradient);flex-shrink:0}
.stats-grid{display:grid;grid-template-columns:1fr;gap:1.5rem}
.stat-value{font-size:2.25rem;font-weight:800}
.stat-label{color:var(--color-textMuted)}
.feature-card{text-align:center}
.feature-icon{display:inline-flex;align-items:center;justify-content:center;width:3.5rem;height:3.5rem;border-radius:1rem;background:var(--color-bgTint);font-size:1.75rem;margin-bottom:1rem}
.step-number{display:inline-flex;align-items:center;justify-content:center;width:3rem;height:3rem;border-radius:9999px;background:var(--gradient);color:#FFFFFF;font-weight:700;font-size:1.25rem;margin-bottom:1rem}
.cta{background:var(--gradient);color:#FFFFFF;border-radius:1.5rem;padding:3rem 1.5rem;text-align:center}
.cta p{color:#E0E7FF;margin:1rem auto 2rem;max-width:36rem}
.cta .btn{background:#FFFFFF;color:var(--color-primaryDark)}
`
}

func cssWizard() string {
	return `
.wizard{max-width:48rem;margin:0 auto;padding:2rem 1rem 4rem}
.wizard-header{text-align:center;margin-bottom:2rem}
.progress{display:flex;justify-content:space-between;gap:0.5rem;margin-bottom:0.75rem}
.progress-step{flex:1;text-align:center;font-size:0.75rem;color:var(--color-textDim)}
.progress-dot{display:flex;align-items:center;justify-content:center;width:2rem;height:2rem;margin:0 auto 0.25rem;border-radius:9999px;background:var(--color-border);color:var(--color-textDim);font-weight:700}
.progress-step.is-active .progress-dot,.progress-step.is-done .progress-dot{background:var(--gradient);color:#FFFFFF}
.progress-step.is-active{color:var(--color-text);font-weight:600}
.progress-bar{height:0.375rem;background:var(--color-border);border-radius:9999px;overflow:hidden}
.progress-fill{height:100%;background:var(--gradient);transition:width 0.3s ease}
.step-actions{display:flex;justify-content:space-between;gap:1rem;margin-top:2rem}
.strength{margin-top:0.5rem}
.strength-bar{height:0.375rem;background:var(--color-border);border-radius:9999px;overflow:hidden}
.strength-fill{height:100%;transition:width 0.3s ease}
.tone-weak{background:var(--color-weak)}.tone-fair{background:var(--color-fair)}.tone-good{background:var(--color-good)}.tone-strong{background:var(--color-strong)}
.role-grid{display:grid;grid-template-columns:1fr 1fr;gap:1rem}
.choice{display:block;padding:1rem;border:2px solid var(--color-border);border-radius:0.75rem;text-align:center;cursor:pointer;background:#FFFFFF;font-weight:600}
.choice[aria-pressed="true"]{border-color:var(--color-primary);background:var(--color-bgTint);color:var(--color-primaryDark)}
.tag-grid{display:grid;grid-template-columns:repeat(2,1fr);gap:0.75rem}
.tag{padding:0.75rem;border:2px solid var(--color-border);border-radius:0.75rem;background:#FFFFFF;cursor:pointer;font-size:0.875rem;text-align:left}
.tag[aria-pressed="true"]{border-color:var(--color-primary);background:var(--color-bgTint);color:var(--color-primaryDark);font-weight:600}
.chips{display:flex;flex-wrap:wrap;gap:0.5rem}
.chip{display:inline-flex;align-items:center;gap:0.25rem;padding:0.25rem 0.75rem;border-radius:9999px;background:var(--color-bgTint);color:var(--color-primaryDark);font-size:0.8rem}
.chip button{border:none;background:transparent;cursor:pointer;color:inherit;font-weight:700}
.custom-row{display:flex;gap:0.5rem;align-items:flex-start}
.rate-card{border:1px solid var(--color-border);border-radius:0.75rem;padding:1.25rem;background:var(--color-bgAlt)}
.rate-card-head{display:flex;justify-content:space-between;align-items:center;margin-bottom:1rem}
.advanced{margin-top:1rem;padding-top:1rem;border-top:1px dashed var(--color-borderLight)}
.tips{background:var(--color-bgTint);border-radius:0.75rem;padding:1rem 1.25rem;font-size:0.875rem}
.tips li{list-style:disc;margin-left:1.25rem;color:var(--color-textMuted)}
.review dt{font-size:0.8rem;color:var(--color-textDim)}
.review dd{font-weight:600;margin-bottom:0.75rem}
.complete{text-align:center}
.complete-icon{font-size:4rem;margin-bottom:1rem}
`
}

func cssAuth() string {
	return `
.auth-grid{display:grid;gap:3rem;align-items:center;min-height:calc(100vh - 8rem)}
.auth-card{max-width:28rem;width:100%;margin:0 auto;padding:2rem;box-shadow:0 25px 50px rgba(0,0,0,0.12);border:none}
.auth-side{display:none;background:linear-gradient(135deg,#4F46E5,#DB2777);color:#FFFFFF;border-radius:1rem;padding:2rem}
.auth-side p,.auth-side li{color:#E0E7FF}
.auth-side .stat{background:rgba(255,255,255,0.1);border-radius:0.75rem;padding:1rem;text-align:center}
.overlay{position:fixed;inset:0;z-index:100;display:flex;align-items:center;justify-content:center;background:var(--color-overlay)}
.overlay-box{background:#FFFFFF;border-radius:1rem;padding:2rem 2.5rem;text-align:center;box-shadow:0 25px 50px rgba(0,0,0,0.25)}
.spinner{width:2.5rem;height:2.5rem;margin:0 auto 1rem;border:4px solid var(--color-border);border-top-color:var(--color-primary);border-radius:9999px;animation:spin 0.8s linear infinite}
`
}

func cssFooter() string {
	return `
.footer{background:var(--color-bgDark);color:#FFFFFF;padding:3rem 0 2rem}
.footer p,.footer a{color:var(--color-textLight);font-size:0.875rem}
.footer a:hover{color:#FFFFFF}
.footer h4{margin-bottom:1rem}
.footer-grid{display:grid;gap:2rem}
.footer-bottom{border-top:1px solid #1F2937;margin-top:2rem;padding-top:2rem;text-align:center}
`
}

func cssAnimations() string {
	return `
@keyframes fadeInUp{from{opacity:0;transform:translateY(20px)}to{opacity:1;transform:translateY(0)}}
@keyframes spin{to{transform:rotate(360deg)}}
.animate-fade-in{animation:fadeInUp 0.6s ease both}
@media(prefers-reduced-motion:reduce){*{animation-duration:0.01ms!important;animation-iteration-count:1!important;transition-duration:0.01ms!important}}
`
}

func cssAccessibility() string {
	return `
.sr-only{position:absolute;width:1px;height:1px;padding:0;margin:-1px;overflow:hidden;clip:rect(0,0,0,0);white-space:nowrap;border:0}
.skip-link{position:absolute;top:-40px;left:0;background:var(--color-primaryDark);color:#FFFFFF;padding:0.5rem 1rem;z-index:1000;font-weight:600}
.skip-link:focus{top:0}
:focus-visible{outline:2px solid var(--color-primary);outline-offset:2px}
`
}

func cssResponsive() string {
	// Mobile-first: breakpoints use min-width
	return `
@media(min-width:640px){
.container{padding:0 2rem}
.hero-actions{flex-direction:row}
.stats-grid{grid-template-columns:repeat(3,1fr)}
.tag-grid{grid-template-columns:repeat(3,1fr)}
.grid-2{grid-template-columns:repeat(2,1fr)}
}
@media(min-width:768px){
.nav-links,.nav-actions{display:flex}
.nav-toggle,.nav-mobile{display:none}
.grid-3{grid-template-columns:repeat(3,1fr)}
.footer-grid{grid-template-columns:repeat(4,1fr)}
.section{padding:5rem 0}
}
@media(min-width:1024px){
.grid-4{grid-template-columns:repeat(4,1fr)}
.hero-grid{grid-template-columns:1fr 1fr}
.auth-grid{grid-template-columns:1fr 1fr}
.auth-side{display:block}
.auth-card{margin:0}
}
`
}
