// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compiler

import "github.com/olegiv/pagebuilder/internal/model"

// baseCSS is emitted at the top of every document.
const baseCSS = `*,*::before,*::after{box-sizing:border-box}
html{scroll-behavior:smooth}
body{margin:0;font-family:system-ui,-apple-system,"Segoe UI",Roboto,sans-serif;line-height:1.6;color:#1f2937;background:#ffffff}
img{max-width:100%;height:auto}
a{color:inherit}
.container{max-width:1120px;margin:0 auto;padding:0 24px}
.block h2{font-size:2rem;line-height:1.25;margin:0 0 .5rem}
.block .subtitle{color:#6b7280;margin:0 0 2rem}
.subpage-title{max-width:1120px;margin:48px auto 0;padding:0 24px;font-size:2.25rem;line-height:1.2}
.grid{display:grid;gap:24px;grid-template-columns:repeat(auto-fit,minmax(220px,1fr))}
.card{background:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px}
.btn{display:inline-block;padding:12px 24px;border-radius:8px;text-decoration:none;font-weight:600;background:#2563eb;color:#ffffff}
.btn-secondary{background:transparent;color:inherit;border:1px solid currentColor}
.btn-outline{background:transparent;color:#2563eb;border:1px solid #2563eb}
.anim-fade{animation:pb-fade .8s ease both}
.anim-slide-up{animation:pb-slide-up .8s ease both}
.anim-slide-left{animation:pb-slide-left .8s ease both}
.anim-zoom{animation:pb-zoom .8s ease both}
@keyframes pb-fade{from{opacity:0}to{opacity:1}}
@keyframes pb-slide-up{from{opacity:0;transform:translateY(24px)}to{opacity:1;transform:none}}
@keyframes pb-slide-left{from{opacity:0;transform:translateX(24px)}to{opacity:1;transform:none}}
@keyframes pb-zoom{from{opacity:0;transform:scale(.95)}to{opacity:1;transform:none}}
.loading-screen{position:fixed;inset:0;display:flex;align-items:center;justify-content:center;background:#ffffff;z-index:100;animation:pb-hide .4s ease var(--pb-loading-delay,1s) forwards}
.loading-spinner{width:48px;height:48px;border:4px solid #e5e7eb;border-top-color:var(--pb-loading-color,#2563eb);border-radius:50%;animation:pb-spin 1s linear infinite}
.loading-bar{width:160px;height:4px;background:var(--pb-loading-color,#2563eb);animation:pb-fade 1s ease infinite alternate}
.loading-dots::after{content:"...";font-size:2rem;color:var(--pb-loading-color,#2563eb)}
@keyframes pb-spin{to{transform:rotate(360deg)}}
@keyframes pb-hide{to{opacity:0;visibility:hidden}}`

// typeCSS holds the shared rules contributed by each component type.
var typeCSS = map[model.ComponentType]string{
	model.TypeHeader: `.header{padding:16px 0;border-bottom:1px solid #e5e7eb;background:#ffffff}
.header.sticky{position:sticky;top:0;z-index:10}
.header .container{display:flex;align-items:center;justify-content:space-between;gap:24px}
.header .logo{font-weight:700;font-size:1.25rem;text-decoration:none}
.header .logo img{height:32px}
.header nav{display:flex;gap:20px;flex-wrap:wrap}
.header nav a{text-decoration:none;color:#374151}`,
	model.TypeHero: `.hero{text-align:center}
.hero h1{font-size:3rem;line-height:1.1;margin:0 0 1rem}
.hero .lead{font-size:1.25rem;color:#4b5563;max-width:720px;margin:0 auto 2rem}
.hero .actions{display:flex;gap:12px;justify-content:center;flex-wrap:wrap}
.hero.split .container{display:grid;grid-template-columns:1fr 1fr;gap:48px;align-items:center;text-align:left}
.hero.split .actions{justify-content:flex-start}`,
	model.TypeFeatures: `.features .icon{font-size:2rem}
.features h3{margin:.5rem 0}`,
	model.TypePricing: `.pricing .plan{display:flex;flex-direction:column;gap:12px}
.pricing .plan.highlighted{border:2px solid #2563eb}
.pricing .price{font-size:2.5rem;font-weight:700}
.pricing ul{padding-left:1.25rem;flex:1}`,
	model.TypeTestimonials: `.testimonials blockquote{margin:0;font-style:italic}
.testimonials .author{display:flex;align-items:center;gap:12px;margin-top:16px}
.testimonials .author img{width:40px;height:40px;border-radius:50%}`,
	model.TypeCTA: `.cta{text-align:center}
.cta .actions{display:flex;gap:12px;justify-content:center;margin-top:24px}`,
	model.TypeFooter: `.footer{background:#111827;color:#d1d5db}
.footer .columns{display:grid;gap:32px;grid-template-columns:2fr repeat(auto-fit,minmax(140px,1fr))}
.footer ul{list-style:none;padding:0}
.footer .social{display:flex;gap:12px}
.footer .copyright{border-top:1px solid #374151;margin-top:32px;padding-top:16px;font-size:.875rem}`,
	model.TypeStats: `.stats .value{font-size:2.5rem;font-weight:700}
.stats .label{color:#6b7280}
.stats .grid{text-align:center}`,
	model.TypeTeam: `.team .member{text-align:center}
.team .member img{width:120px;height:120px;border-radius:50%;object-fit:cover}`,
	model.TypeFAQ: `.faq details{border-bottom:1px solid #e5e7eb;padding:16px 0}
.faq summary{font-weight:600;cursor:pointer}`,
	model.TypeGallery: `.gallery figure{margin:0}
.gallery img{width:100%;border-radius:8px;object-fit:cover;aspect-ratio:4/3}
.gallery figcaption{font-size:.875rem;color:#6b7280}`,
	model.TypeLogoCloud: `.logo-cloud .logos{display:flex;flex-wrap:wrap;gap:40px;justify-content:center;align-items:center}
.logo-cloud img{max-height:40px;filter:grayscale(1)}`,
	model.TypeContact: `.contact form{display:grid;gap:16px;max-width:560px}
.contact label{display:grid;gap:4px;font-weight:500}
.contact input,.contact textarea{padding:10px;border:1px solid #d1d5db;border-radius:6px;font:inherit}
.contact .details{list-style:none;padding:0}`,
	model.TypeContent: `.content .body{max-width:760px}
.content.align-center .body{margin:0 auto;text-align:center}
.content.align-right .body{margin-left:auto;text-align:right}`,
	model.TypeNewsletter: `.newsletter{text-align:center}
.newsletter form{display:flex;gap:8px;justify-content:center;flex-wrap:wrap;margin-top:16px}
.newsletter input{padding:12px;border:1px solid #d1d5db;border-radius:8px;min-width:260px;font:inherit}`,
	model.TypeVideo: `.video .frame{position:relative;padding-top:56.25%}
.video .frame iframe,.video .frame video{position:absolute;inset:0;width:100%;height:100%;border:0}`,
}
